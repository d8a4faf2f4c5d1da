package dispatch

import (
	"sync"

	"github.com/chazu/rpcgen/pkg/rpc"
)

type stopper interface {
	Stop()
}

// Holder owns the proxies and subscriptions created on behalf of one
// consumer. Clear detaches all of them at once, typically when the consumer
// is disposed.
//
// Each proxy a Holder creates has a guard of its own. Clear stops them one by
// one, and once it returns no wrapped call reaches the consumer.
type Holder struct {
	executor Executor

	mu    sync.Mutex
	stops []stopper
	subs  []rpc.Subscription
}

// NewHolder returns a holder whose proxies deliver through executor.
func NewHolder(executor Executor) *Holder {
	return &Holder{executor: executor}
}

// WrapCallback returns a callback that forwards to cb until the holder is
// cleared.
func WrapCallback[T any](h *Holder, cb rpc.RequestCallback[T]) rpc.RequestCallback[T] {
	p := New(cb, h.executor)
	h.track(p)
	return Callback(p)
}

// WrapFunc returns a function that calls fn until the holder is cleared.
func WrapFunc(h *Holder, fn func()) func() {
	p := New[func()](fn, h.executor)
	h.track(p)
	return Func(p)
}

// Hold registers sub to be unsubscribed by Clear.
func (h *Holder) Hold(sub rpc.Subscription) {
	if sub == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.subs = append(h.subs, sub)
}

// Clear stops every proxy and unsubscribes every held subscription. The
// holder stays usable afterwards.
func (h *Holder) Clear() {
	h.mu.Lock()
	stops, subs := h.stops, h.subs
	h.stops, h.subs = nil, nil
	h.mu.Unlock()

	for _, p := range stops {
		p.Stop()
	}
	for _, sub := range subs {
		sub.Unsubscribe()
	}
}

// Len returns the number of proxies and subscriptions currently held.
func (h *Holder) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.stops) + len(h.subs)
}

func (h *Holder) track(p stopper) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stops = append(h.stops, p)
}
