package rpc

import (
	"github.com/juju/errors"
)

// Subscriber is the subscription handle generated code returns for one
// endpoint. T is the endpoint's result type.
type Subscriber[T any] struct {
	storage CallbackStorage
	method  string
	others  []*Subscriber[T]
}

// NewSubscriber returns a handle for the dotted endpoint name method.
func NewSubscriber[T any](storage CallbackStorage, method string) *Subscriber[T] {
	return &Subscriber[T]{storage: storage, method: method}
}

// Method returns the dotted endpoint name.
func (s *Subscriber[T]) Method() string {
	return s.method
}

// Subscribe attaches callback to every result of the endpoint and of any
// merged endpoint.
func (s *Subscriber[T]) Subscribe(callback RequestCallback[T]) Subscription {
	return s.subscribe(callback, false)
}

// SubscribeOnce attaches callback to the next result only.
func (s *Subscriber[T]) SubscribeOnce(callback RequestCallback[T]) Subscription {
	return s.subscribe(callback, true)
}

// MergeWith makes subscriptions through s also cover other and everything
// already merged into it. It returns s.
func (s *Subscriber[T]) MergeWith(other *Subscriber[T]) *Subscriber[T] {
	s.others = append(s.others, other)
	s.others = append(s.others, other.others...)
	return s
}

func (s *Subscriber[T]) subscribe(callback RequestCallback[T], once bool) Subscription {
	sub := &CompoundSubscription{}
	sub.Add(s.storage.Subscribe(s.method, erase[T]{method: s.method, cb: callback}, once))
	for _, other := range s.others {
		sub.Add(s.storage.Subscribe(other.method, erase[T]{method: other.method, cb: callback}, once))
	}
	return sub
}

// erase adapts a typed callback to the storage's untyped one.
type erase[T any] struct {
	method string
	cb     RequestCallback[T]
}

func (e erase[T]) OnSuccess(response any) {
	if response == nil {
		var zero T
		e.cb.OnSuccess(zero)
		return
	}
	v, ok := response.(T)
	if !ok {
		e.cb.OnFailure(errors.NotValidf("response of type %T for %q", response, e.method))
		return
	}
	e.cb.OnSuccess(v)
}

func (e erase[T]) OnFailure(err error) {
	e.cb.OnFailure(err)
}
