package application_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/railway-dispatch/pkg/application"
)

type clockService struct {
	name string
}

func TestServiceRegistry(t *testing.T) {
	app := application.New(&application.ApplicationOptions{})
	svc := &clockService{name: "clock"}
	app.RegisterServices(svc)

	got, ok := app.Service(clockService{}).(*clockService)
	require.True(t, ok)
	assert.Same(t, svc, got)
	assert.Len(t, app.Services(), 1)
}

func TestService_PanicsWhenMissing(t *testing.T) {
	app := application.New(&application.ApplicationOptions{})
	assert.Panics(t, func() { app.Service(clockService{}) })
}
