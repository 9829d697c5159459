// Package saga runs ordered multi-store operations with explicit
// compensation. A Saga executes each step's Forward in order; when one fails,
// the Compensate actions of the already-completed steps run in reverse order
// and the original failure is returned wrapped in an *Error describing the
// outcome.
//
// Runs live only in process memory. A crash between steps leaves whatever
// the completed forward actions wrote.
package saga

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/railway-dispatch/pkg/composables"
)

type StepStatus string

const (
	StepPending            StepStatus = "pending"
	StepCommitted          StepStatus = "committed"
	StepFailed             StepStatus = "failed"
	StepRolledBack         StepStatus = "rolled_back"
	StepCompensationFailed StepStatus = "compensation_failed"
	StepUncompensated      StepStatus = "uncompensated"
)

type Outcome string

const (
	OutcomeCommitted            Outcome = "committed"
	OutcomeRolledBack           Outcome = "rolled_back"
	OutcomeCompensationFailed   Outcome = "compensation_failed"
	OutcomePartialUncompensated Outcome = "partial_uncompensated"
)

// Step is one forward action against one store. A nil Compensate marks the
// step as not compensable: once it completes, later failures leave it in
// place.
type Step struct {
	Name       string
	Store      string
	Forward    func(ctx context.Context) error
	Compensate func(ctx context.Context) error
}

type StepRecord struct {
	Name   string
	Store  string
	Status StepStatus
	Err    error
}

type Result struct {
	ID      uuid.UUID
	Saga    string
	Outcome Outcome
	Steps   []StepRecord
}

type Saga struct {
	name  string
	steps []Step
}

func New(name string, steps ...Step) *Saga {
	return &Saga{name: name, steps: steps}
}

func (s *Saga) Name() string {
	return s.name
}

// Run executes the saga. The returned Result is always non-nil; err is nil
// only when every step committed.
func (s *Saga) Run(ctx context.Context) (*Result, error) {
	res := &Result{
		ID:      uuid.New(),
		Saga:    s.name,
		Outcome: OutcomeCommitted,
		Steps:   make([]StepRecord, len(s.steps)),
	}
	for i, st := range s.steps {
		res.Steps[i] = StepRecord{Name: st.Name, Store: st.Store, Status: StepPending}
	}
	logger := composables.UseLogger(ctx).WithFields(logrus.Fields{
		"saga":    s.name,
		"saga-id": res.ID.String(),
	})

	for i, st := range s.steps {
		stepLog := logger.WithFields(logrus.Fields{"step": st.Name, "store": st.Store})
		if err := st.Forward(ctx); err != nil {
			res.Steps[i].Status = StepFailed
			res.Steps[i].Err = err
			stepLog.WithError(err).Warn("saga step failed, compensating")
			sagaErr := s.compensate(ctx, logger, res, i, err)
			s.record(res)
			return res, sagaErr
		}
		res.Steps[i].Status = StepCommitted
		stepLog.Debug("saga step committed")
	}
	s.record(res)
	return res, nil
}

func (s *Saga) compensate(ctx context.Context, logger *logrus.Entry, res *Result, failed int, cause error) error {
	// compensations must run even when the caller's context is already done
	cctx := context.WithoutCancel(ctx)
	sagaErr := &Error{Saga: s.name, Step: s.steps[failed].Name, Cause: cause}

	for i := failed - 1; i >= 0; i-- {
		st := s.steps[i]
		stepLog := logger.WithFields(logrus.Fields{"step": st.Name, "store": st.Store})
		if st.Compensate == nil {
			res.Steps[i].Status = StepUncompensated
			sagaErr.Uncompensated = append(sagaErr.Uncompensated, st.Name)
			stepLog.Error("saga step has no compensation; manual reconciliation required")
			continue
		}
		if err := st.Compensate(cctx); err != nil {
			res.Steps[i].Status = StepCompensationFailed
			res.Steps[i].Err = err
			sagaErr.CompensationErrors = append(sagaErr.CompensationErrors,
				fmt.Errorf("compensate %s: %w", st.Name, err))
			metricsSingleton().compensations.WithLabelValues(s.name, st.Name, "error").Inc()
			stepLog.WithError(err).Error("saga compensation failed; manual reconciliation required")
			continue
		}
		res.Steps[i].Status = StepRolledBack
		metricsSingleton().compensations.WithLabelValues(s.name, st.Name, "ok").Inc()
		stepLog.Info("saga step compensated")
	}

	switch {
	case len(sagaErr.CompensationErrors) > 0:
		sagaErr.Outcome = OutcomeCompensationFailed
	case len(sagaErr.Uncompensated) > 0:
		sagaErr.Outcome = OutcomePartialUncompensated
	default:
		sagaErr.Outcome = OutcomeRolledBack
	}
	res.Outcome = sagaErr.Outcome
	return sagaErr
}

func (s *Saga) record(res *Result) {
	metricsSingleton().runs.WithLabelValues(s.name, string(res.Outcome)).Inc()
}
