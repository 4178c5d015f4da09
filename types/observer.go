package types

import "go.uber.org/zap"

/*
Observer is the diagnostic hook for errors the cache recovers from.

The cache never lets serialization, codec, or durable-store failures reach
the caller: the offending entry is dropped and the operation returns its
safe default. That policy makes failures invisible to control flow, so the
observer exists to make them visible to operators instead.

OnRecoveredError MUST be fast and must not call back into the cache; it
runs on the read/write path of the operation that hit the error.
*/
type Observer interface {
	OnRecoveredError(op, key string, err error)
}

// NoopObserver discards every event.
type NoopObserver struct{}

func (NoopObserver) OnRecoveredError(string, string, error) {}

// ZapObserver reports recovered errors through a zap logger at warn level.
type ZapObserver struct {
	log *zap.Logger
}

func NewZapObserver(log *zap.Logger) *ZapObserver {
	if log == nil {
		log = zap.NewNop()
	}
	return &ZapObserver{log: log}
}

func (o *ZapObserver) OnRecoveredError(op, key string, err error) {
	o.log.Warn("cache error recovered",
		zap.String("op", op),
		zap.String("key", key),
		zap.Error(err),
	)
}
