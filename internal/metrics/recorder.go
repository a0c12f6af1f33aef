// Package metrics records build statistics.
package metrics

import "time"

// Outcome labels the final status of a build.
type Outcome string

const (
	OutcomeSuccess  Outcome = "success"
	OutcomeFailed   Outcome = "failed"
	OutcomeCanceled Outcome = "canceled"
)

// Recorder receives build observations. Implementations forward to Prometheus or drop them.
type Recorder interface {
	ObserveBuildDuration(d time.Duration)
	IncBuildOutcome(outcome Outcome)
	AddPagesRendered(n int)
	SetTags(n int)
	AddFilesPruned(n int)
}

// NoopRecorder drops every observation (default when metrics are not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveBuildDuration(time.Duration) {}
func (NoopRecorder) IncBuildOutcome(Outcome)            {}
func (NoopRecorder) AddPagesRendered(int)               {}
func (NoopRecorder) SetTags(int)                        {}
func (NoopRecorder) AddFilesPruned(int)                 {}
