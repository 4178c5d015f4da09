// Package persist decides how durable-tier mutations reach the external
// key-value store: synchronously (write-through) or via a background
// queue (write-back). Either way persistence is best-effort: a store
// failure is reported to the observer and never fails the cache call.
package persist

/*
Policy is the contract both persistence modes follow.

The cache calls OnWrite/OnRemove with fully-namespaced keys and an
already-encoded envelope; the policy only decides WHEN the store sees
the mutation, never WHAT is stored.
*/
type Policy interface {

	// OnWrite persists an encoded entry under key.
	OnWrite(key, envelope string)

	// OnRemove deletes key from the store.
	OnRemove(key string)

	// Close flushes pending work and releases resources. Called once at
	// cache shutdown.
	Close()
}
