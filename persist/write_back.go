package persist

import (
	"sync"

	"github.com/karuvi/tiercache/types"
)

type persistOp int

const (
	opWrite persistOp = iota
	opRemove
)

// persistReq is one pending mutation waiting for the worker.
type persistReq struct {
	op       persistOp
	key      string
	envelope string
}

/*
WriteBack queues mutations and applies them from a single background
worker, trading durability lag for a fast write path.

If the queue is full the mutation is DROPPED and reported to the
observer: blocking the cache on a slow store would defeat the point of
write-back. The durable tier's in-memory entry is unaffected either way.
*/
type WriteBack struct {
	store    types.DurableStore
	observer types.Observer
	ch       chan persistReq
	wg       sync.WaitGroup
}

func NewWriteBack(store types.DurableStore, observer types.Observer, buffer int) *WriteBack {
	if observer == nil {
		observer = types.NoopObserver{}
	}
	w := &WriteBack{
		store:    store,
		observer: observer,
		ch:       make(chan persistReq, buffer),
	}
	w.wg.Add(1)
	go w.worker()
	return w
}

func (w *WriteBack) OnWrite(key, envelope string) {
	w.enqueue(persistReq{op: opWrite, key: key, envelope: envelope})
}

func (w *WriteBack) OnRemove(key string) {
	w.enqueue(persistReq{op: opRemove, key: key})
}

func (w *WriteBack) enqueue(req persistReq) {
	select {
	case w.ch <- req:
	default:
		// Intentional drop under pressure.
		w.observer.OnRecoveredError("durable.queue", req.key, ErrQueueFull)
	}
}

func (w *WriteBack) worker() {
	defer w.wg.Done()

	for req := range w.ch {
		var err error
		switch req.op {
		case opWrite:
			err = w.store.Write(req.key, req.envelope)
		case opRemove:
			err = w.store.Remove(req.key)
		}
		if err != nil {
			w.observer.OnRecoveredError("durable.writeback", req.key, err)
		}
	}
}

/*
Close drains the queue before returning:
1. Close the channel so no more mutations are accepted.
2. Wait for the worker to apply everything already queued.

Without this, pending writes would be lost on shutdown.
*/
func (w *WriteBack) Close() {
	close(w.ch)
	w.wg.Wait()
}
