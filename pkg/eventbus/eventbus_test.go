package eventbus

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/railway-dispatch/pkg/logging"
)

type takenEvent struct {
	user string
}

type passedEvent struct{}

func bufferedLogger(level logrus.Level) (*bytes.Buffer, *logrus.Logger) {
	buf := &bytes.Buffer{}
	log := logrus.New()
	log.SetOutput(buf)
	log.SetLevel(level)
	return buf, log
}

func TestPublish_NoMatchingSubscribers(t *testing.T) {
	buf, log := bufferedLogger(logrus.WarnLevel)
	bus := NewEventPublisher(log)
	bus.Subscribe(func(e *takenEvent) {
		t.Error("should not be called")
	})
	bus.Publish(&passedEvent{})

	assert.Contains(t, buf.String(), "eventbus.Publish: no matching subscribers")
}

func TestPublish_CallsMatchingHandlersWithContext(t *testing.T) {
	bus := NewEventPublisher(logging.ConsoleLogger(logrus.WarnLevel))
	var got []string
	bus.Subscribe(func(ctx context.Context, e *takenEvent) {
		got = append(got, e.user)
	})
	bus.Subscribe(func(e *takenEvent) {
		t.Error("arity mismatch must not be called")
	})
	bus.Publish(context.Background(), &takenEvent{user: "u1"})

	assert.Equal(t, []string{"u1"}, got)
}

func TestMatchSignature(t *testing.T) {
	assert.True(t, MatchSignature(func(e *takenEvent) {}, []any{&takenEvent{}}))
	assert.False(t, MatchSignature(func(e *takenEvent) {}, []any{&passedEvent{}}))
	assert.False(t, MatchSignature(func(e *takenEvent) {}, []any{}))
	assert.True(t, MatchSignature(func(ctx context.Context) {}, []any{context.Background()}))
	assert.True(t, MatchSignature(func(e *takenEvent) {}, []any{nil}))
	assert.False(t, MatchSignature("not a func", []any{}))
}

func TestPublish_PanicIsLoggedAndOthersRun(t *testing.T) {
	buf, log := bufferedLogger(logrus.ErrorLevel)
	bus := NewEventPublisher(log)

	called := 0
	bus.Subscribe(func(e *takenEvent) { called++ })
	bus.Subscribe(func(e *takenEvent) { panic("intentional panic") })
	bus.Subscribe(func(e *takenEvent) { called++ })

	bus.Publish(&takenEvent{})

	assert.Equal(t, 2, called)
	assert.True(t, strings.Contains(buf.String(), "panicked"), buf.String())
}

func TestPublishE_JoinsErrors(t *testing.T) {
	bus := NewEventPublisher(nil)
	boom := errors.New("boom")
	bus.Subscribe(func(e *takenEvent) error { return boom })
	bus.Subscribe(func(e *takenEvent) error { return nil })
	bus.Subscribe(func(e *takenEvent) (int, error) { return 0, nil })

	err := bus.PublishE(&takenEvent{})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, err, ErrInvalidHandlerReturn)

	assert.ErrorIs(t, bus.PublishE(&passedEvent{}), ErrNoSubscribers)
}

func TestUnsubscribe(t *testing.T) {
	bus := NewEventPublisher(nil)
	h := func(e *takenEvent) {}
	bus.Subscribe(h)
	require.Equal(t, 1, bus.SubscribersCount())
	bus.Unsubscribe(h)
	assert.Equal(t, 0, bus.SubscribersCount())
}
