// Package dispatch delivers calls to consumers that may be disposed while
// the work meant for them is still in flight.
//
// A Proxy forwards every invocation to its target through an Executor, and
// Stop detaches the target for good: nothing submitted before or after Stop
// reaches it once Stop has returned. Capability adapters (Callback, Func)
// expose a Proxy as the interface the call site expects, and a Holder ties a
// batch of proxies and subscriptions to one consumer's lifetime.
package dispatch

import (
	"sync"
)

// Proxy forwards calls to a target value until stopped.
//
// The guard is held while a call is forwarded, so a target must not call
// back into a proxy that shares its guard on the same goroutine.
type Proxy[T any] struct {
	guard    sync.Locker
	executor Executor
	target   T
	attached bool
}

// New returns a proxy for target with a guard of its own. A nil interface
// target yields a proxy that is detached from the start.
func New[T any](target T, executor Executor) *Proxy[T] {
	return NewShared(&sync.Mutex{}, target, executor)
}

// NewShared returns a proxy for target serialized by guard.
func NewShared[T any](guard sync.Locker, target T, executor Executor) *Proxy[T] {
	return &Proxy[T]{
		guard:    guard,
		executor: executor,
		target:   target,
		attached: any(target) != nil,
	}
}

// Invoke submits call for delivery to the target and returns without
// waiting for it. When the proxy is detached, nothing is submitted.
//
// The target is checked again when the task runs; a Stop in between turns
// the task into a no-op. A panic raised by call is left to the executor.
func (p *Proxy[T]) Invoke(call func(target T)) {
	if !p.Attached() {
		return
	}
	p.executor.Execute(func() {
		p.guard.Lock()
		defer p.guard.Unlock()
		if !p.attached {
			return
		}
		call(p.target)
	})
}

// Stop detaches the target. It is idempotent and cannot be undone. A call
// being forwarded while Stop runs completes first; none starts afterwards.
func (p *Proxy[T]) Stop() {
	p.guard.Lock()
	defer p.guard.Unlock()
	var zero T
	p.target = zero
	p.attached = false
}

// Attached reports whether the proxy still forwards calls.
func (p *Proxy[T]) Attached() bool {
	p.guard.Lock()
	defer p.guard.Unlock()
	return p.attached
}
