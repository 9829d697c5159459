// Package itf holds in-memory test infrastructure shared by module tests.
package itf

import (
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/iota-uz/railway-dispatch/pkg/composables"
)

// Ctx returns a context carrying a discarded logger entry tagged with the
// test name.
func Ctx(tb testing.TB) context.Context {
	tb.Helper()
	return composables.WithLogger(context.Background(), Logger(tb).WithField("test", tb.Name()))
}

func Logger(tb testing.TB) *logrus.Logger {
	tb.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	logger.SetLevel(logrus.DebugLevel)
	return logger
}
