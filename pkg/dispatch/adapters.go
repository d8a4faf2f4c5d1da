package dispatch

import (
	"github.com/chazu/rpcgen/pkg/rpc"
)

// Callback exposes p as a request callback. Every method of the callback
// goes through p.Invoke.
func Callback[T any](p *Proxy[rpc.RequestCallback[T]]) rpc.RequestCallback[T] {
	return callbackProxy[T]{p: p}
}

type callbackProxy[T any] struct {
	p *Proxy[rpc.RequestCallback[T]]
}

func (c callbackProxy[T]) OnSuccess(response T) {
	c.p.Invoke(func(cb rpc.RequestCallback[T]) { cb.OnSuccess(response) })
}

func (c callbackProxy[T]) OnFailure(err error) {
	c.p.Invoke(func(cb rpc.RequestCallback[T]) { cb.OnFailure(err) })
}

// Func exposes p as a plain function.
func Func(p *Proxy[func()]) func() {
	return func() {
		p.Invoke(func(fn func()) { fn() })
	}
}

// EmptyCallback returns a callback that ignores everything.
func EmptyCallback[T any]() rpc.RequestCallback[T] {
	return rpc.CallbackFuncs[T]{}
}
