package types

/*
DurableStore is the contract between the cache and the external key-value
store backing the durable tier.

The cache namespaces every key it writes under a fixed prefix and treats
that prefix as exclusively owned: no other component may write keys under
it. Foreign or unreadable values found under the prefix are treated as
corruption and dropped during rehydration.

Implementations must round-trip values exactly: Read must return the same
string previously passed to Write for that key.
*/
type DurableStore interface {

	// Read returns the value stored under key, or ok=false when absent.
	Read(key string) (value string, ok bool, err error)

	// Write stores value under key, replacing any previous value.
	Write(key, value string) error

	// Remove deletes key. Removing a missing key is not an error.
	Remove(key string) error

	// ListKeys returns every stored key that starts with prefix.
	ListKeys(prefix string) ([]string, error)
}
