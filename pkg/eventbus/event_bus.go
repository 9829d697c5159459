// Package eventbus dispatches domain events to handlers selected by their
// parameter types. A handler is any func whose parameters accept the
// published arguments, e.g. func(ctx context.Context, e *duty.TakenEvent).
package eventbus

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/iota-uz/railway-dispatch/pkg/serrors"
)

type EventBus interface {
	Publish(args ...any)
	PublishE(args ...any) error
	Subscribe(handler any)
	Unsubscribe(handler any)
	SubscribersCount() int
}

var (
	ErrNoSubscribers        = serrors.NewError(serrors.KindInternal, "EVENTBUS_NO_SUBSCRIBERS", "no matching subscribers")
	ErrInvalidHandlerReturn = serrors.NewError(serrors.KindInternal, "EVENTBUS_INVALID_HANDLER_RETURN", "invalid handler return signature")
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

type bus struct {
	log      *logrus.Logger
	mu       sync.RWMutex
	handlers []reflect.Value
}

func NewEventPublisher(log *logrus.Logger) EventBus {
	return &bus{log: log}
}

// MatchSignature reports whether handler can be called with args.
func MatchSignature(handler any, args []any) bool {
	t := reflect.TypeOf(handler)
	if t == nil || t.Kind() != reflect.Func || t.NumIn() != len(args) {
		return false
	}
	for i, arg := range args {
		param := t.In(i)
		if arg == nil {
			switch param.Kind() {
			case reflect.Interface, reflect.Ptr:
				continue
			default:
				return false
			}
		}
		if !reflect.TypeOf(arg).AssignableTo(param) {
			return false
		}
	}
	return true
}

func (b *bus) matching(args []any) []reflect.Value {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var out []reflect.Value
	for _, h := range b.handlers {
		if MatchSignature(h.Interface(), args) {
			out = append(out, h)
		}
	}
	return out
}

func callArgs(fn reflect.Type, args []any) []reflect.Value {
	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		if arg == nil {
			in[i] = reflect.Zero(fn.In(i))
			continue
		}
		in[i] = reflect.ValueOf(arg)
	}
	return in
}

// Publish calls every matching handler. Panics and handler errors are
// logged and do not stop the remaining handlers.
func (b *bus) Publish(args ...any) {
	if err := b.PublishE(args...); err != nil {
		if b.log == nil {
			return
		}
		if errors.Is(err, ErrNoSubscribers) {
			b.log.Warnf("eventbus.Publish: no matching subscribers for %d args", len(args))
			return
		}
		b.log.WithError(err).Error("eventbus.Publish: handler failed")
	}
}

// PublishE calls every matching handler and joins their errors. A handler
// may return nothing or a single error.
func (b *bus) PublishE(args ...any) error {
	handlers := b.matching(args)
	if len(handlers) == 0 {
		return ErrNoSubscribers
	}
	var errs []error
	for _, h := range handlers {
		if err := invoke(h, args); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func invoke(h reflect.Value, args []any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("eventbus: handler %s panicked: %v", h.Type(), r)
		}
	}()
	out := h.Call(callArgs(h.Type(), args))
	switch {
	case len(out) == 0:
		return nil
	case len(out) > 1 || out[0].Type() != errorType:
		return fmt.Errorf("%w: handler %s", ErrInvalidHandlerReturn, h.Type())
	case out[0].IsNil():
		return nil
	default:
		return out[0].Interface().(error)
	}
}

func (b *bus) Subscribe(handler any) {
	v := reflect.ValueOf(handler)
	if v.Kind() != reflect.Func {
		panic("handler must be a function")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, v)
}

// Unsubscribe removes handler, compared by function pointer.
func (b *bus) Unsubscribe(handler any) {
	ptr := reflect.ValueOf(handler).Pointer()
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, h := range b.handlers {
		if h.Pointer() == ptr {
			b.handlers = append(b.handlers[:i], b.handlers[i+1:]...)
			return
		}
	}
}

func (b *bus) SubscribersCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers)
}
