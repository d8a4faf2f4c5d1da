package dispatch

import (
	"sync"

	"github.com/juju/errors"
	"gopkg.in/tomb.v2"
)

// Executor accepts deferred units of work.
type Executor interface {
	Execute(task func())
}

// ExecutorFunc adapts a function to Executor.
type ExecutorFunc func(task func())

// Execute implements Executor.
func (f ExecutorFunc) Execute(task func()) {
	f(task)
}

// Immediate runs every task on the submitting goroutine. A task that panics
// panics the submitter.
var Immediate Executor = ExecutorFunc(func(task func()) { task() })

// Serial runs tasks one at a time, in submission order, on a goroutine of
// its own. A task that panics kills the executor; the panic is reported by
// Wait and Err, and every task submitted afterwards is dropped.
type Serial struct {
	tomb  tomb.Tomb
	mu    sync.Mutex
	queue []func()
	wake  chan struct{}
}

// NewSerial starts a serial executor.
func NewSerial() *Serial {
	s := &Serial{wake: make(chan struct{}, 1)}
	s.tomb.Go(s.loop)
	return s
}

// Execute implements Executor.
func (s *Serial) Execute(task func()) {
	if !s.tomb.Alive() {
		return
	}
	s.mu.Lock()
	s.queue = append(s.queue, task)
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Kill asks the executor to stop. Queued tasks that have not started are
// dropped.
func (s *Serial) Kill() {
	s.tomb.Kill(nil)
}

// Wait blocks until the executor has stopped and returns the reason, nil
// for a plain Kill.
func (s *Serial) Wait() error {
	return s.tomb.Wait()
}

// Err returns the failure reason once the executor is dying.
func (s *Serial) Err() error {
	err := s.tomb.Err()
	if err == tomb.ErrStillAlive {
		return nil
	}
	return err
}

// Dead is closed once the executor has fully stopped.
func (s *Serial) Dead() <-chan struct{} {
	return s.tomb.Dead()
}

func (s *Serial) loop() error {
	for {
		select {
		case <-s.tomb.Dying():
			return tomb.ErrDying
		case <-s.wake:
		}
		for {
			task, ok := s.next()
			if !ok {
				break
			}
			if s.tomb.Err() != tomb.ErrStillAlive {
				return tomb.ErrDying
			}
			if err := run(task); err != nil {
				return err
			}
		}
	}
}

func (s *Serial) next() (func(), bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queue) == 0 {
		return nil, false
	}
	task := s.queue[0]
	s.queue[0] = nil
	s.queue = s.queue[1:]
	return task, true
}

func run(task func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = errors.Annotate(e, "task panicked")
				return
			}
			err = errors.Errorf("task panicked: %v", r)
		}
	}()
	task()
	return nil
}
