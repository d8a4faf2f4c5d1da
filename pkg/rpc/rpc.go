// Package rpc is the runtime surface that generated subscriber code is
// written against: typed request callbacks, subscriptions and the
// callback-storage contract.
//
// The storage itself, and how an RPC client feeds it, live outside this
// module. Subscriber only knows how to hand typed callbacks to it.
package rpc

import "sync"

// PackagePath is the import path generated code uses for this package.
const PackagePath = "github.com/chazu/rpcgen/pkg/rpc"

// RequestCallback receives the outcome of one RPC call.
type RequestCallback[T any] interface {
	// OnSuccess receives the decoded response.
	OnSuccess(response T)
	// OnFailure receives any error raised while requesting, converting or
	// validating the response.
	OnFailure(err error)
}

// Callback is the type-erased form callback storage works with.
type Callback = RequestCallback[any]

// CallbackFuncs is a RequestCallback built from plain functions. Nil
// functions are skipped.
type CallbackFuncs[T any] struct {
	Success func(response T)
	Failure func(err error)
}

// OnSuccess implements RequestCallback.
func (c CallbackFuncs[T]) OnSuccess(response T) {
	if c.Success != nil {
		c.Success(response)
	}
}

// OnFailure implements RequestCallback.
func (c CallbackFuncs[T]) OnFailure(err error) {
	if c.Failure != nil {
		c.Failure(err)
	}
}

// Subscription is a handle on an attached callback.
type Subscription interface {
	Unsubscribe()
}

// SubscriptionFunc adapts a function to Subscription.
type SubscriptionFunc func()

// Unsubscribe implements Subscription.
func (f SubscriptionFunc) Unsubscribe() {
	f()
}

// CallbackStorage stores callbacks by dotted endpoint name and delivers
// results of calls to that endpoint to them.
type CallbackStorage interface {
	// Subscribe attaches callback to method. With once set, the callback is
	// detached after its first delivery.
	Subscribe(method string, callback Callback, once bool) Subscription
}

// CompoundSubscription unsubscribes a set of subscriptions at once.
type CompoundSubscription struct {
	mu   sync.Mutex
	subs []Subscription
}

// Add appends sub to the set.
func (c *CompoundSubscription) Add(sub Subscription) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subs = append(c.subs, sub)
}

// Len returns the number of live subscriptions in the set.
func (c *CompoundSubscription) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.subs)
}

// Unsubscribe implements Subscription. It unsubscribes every member and
// empties the set.
func (c *CompoundSubscription) Unsubscribe() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, sub := range c.subs {
		sub.Unsubscribe()
	}
	c.subs = nil
}
