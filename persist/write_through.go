package persist

import "github.com/karuvi/tiercache/types"

/*
WriteThrough forwards every mutation to the store immediately.

The call is synchronous: a durable Set is not complete until the store
write returns. Failures are reported to the observer and otherwise
swallowed; the in-memory entry stands regardless, so a flaky store
degrades durability, never availability.
*/
type WriteThrough struct {
	store    types.DurableStore
	observer types.Observer
}

func NewWriteThrough(store types.DurableStore, observer types.Observer) *WriteThrough {
	if observer == nil {
		observer = types.NoopObserver{}
	}
	return &WriteThrough{store: store, observer: observer}
}

func (w *WriteThrough) OnWrite(key, envelope string) {
	if err := w.store.Write(key, envelope); err != nil {
		w.observer.OnRecoveredError("durable.write", key, err)
	}
}

func (w *WriteThrough) OnRemove(key string) {
	if err := w.store.Remove(key); err != nil {
		w.observer.OnRecoveredError("durable.remove", key, err)
	}
}

// Close has nothing to clean up: write-through keeps no queue.
func (w *WriteThrough) Close() {}
