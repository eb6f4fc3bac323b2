// Package retry wraps remote directory calls with bounded retry, failure
// classification, and inter-call pacing to stay under the directory service's
// rate ceiling.
package retry

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/api/googleapi"

	"github.com/wingops/registry-workspace-sync/internal/config"
)

// Outcome tags the result of an executed operation.
type Outcome string

const (
	Success          Outcome = "success"
	TransientFailure Outcome = "transient_failure"
	PermanentFailure Outcome = "permanent_failure"
)

// Result is the classified outcome of one operation, after retries.
type Result struct {
	Outcome Outcome
	// Code is the classifying HTTP status for failures, 0 on success.
	Code int
	Err  error
}

// OK reports whether the operation ultimately succeeded.
func (r Result) OK() bool {
	return r.Outcome == Success
}

// Executor runs operations with bounded retry and fixed pacing. It is not
// safe for concurrent use; the engine is strictly sequential.
type Executor struct {
	attempts       int
	backoff        time.Duration
	interCallDelay time.Duration
	sleep          func(ctx context.Context, d time.Duration) error
	paced          bool
}

// NewExecutor builds an executor from run configuration.
func NewExecutor(cfg config.RunConfig) *Executor {
	return &Executor{
		attempts:       cfg.RetryAttempts,
		backoff:        time.Duration(cfg.RetryBackoffMs) * time.Millisecond,
		interCallDelay: time.Duration(cfg.InterCallDelayMs) * time.Millisecond,
		sleep:          sleepCtx,
	}
}

// SetSleep overrides the sleep function; tests use this to avoid real waits.
func (e *Executor) SetSleep(fn func(ctx context.Context, d time.Duration) error) {
	e.sleep = fn
}

// Execute runs op, retrying transient failures up to the attempt ceiling.
// Permanent failures surface immediately with their classifying code. A
// transient failure that exhausts retries is demoted to PermanentFailure so
// one member's trouble never aborts the run. The first call is unpaced;
// every subsequent call waits the inter-call delay first.
func (e *Executor) Execute(ctx context.Context, op func(ctx context.Context) error) Result {
	if e.paced {
		if err := e.sleep(ctx, e.interCallDelay); err != nil {
			return Result{Outcome: TransientFailure, Err: err}
		}
	}
	e.paced = true

	var lastErr error
	var lastCode int
	for attempt := 1; attempt <= e.attempts; attempt++ {
		err := op(ctx)
		if err == nil {
			return Result{Outcome: Success}
		}

		code := ClassifyCode(err)
		if !isTransientCode(code) {
			return Result{Outcome: PermanentFailure, Code: code, Err: err}
		}

		lastErr = err
		lastCode = code
		if attempt < e.attempts {
			logrus.WithError(err).WithFields(logrus.Fields{
				"attempt": attempt,
				"code":    code,
			}).Debug("transient failure, retrying")
			if sleepErr := e.sleep(ctx, e.backoff); sleepErr != nil {
				return Result{Outcome: TransientFailure, Code: code, Err: sleepErr}
			}
		}
	}

	// Retries exhausted: demote to permanent so the caller records it and
	// moves on.
	return Result{Outcome: PermanentFailure, Code: lastCode, Err: lastErr}
}

// ClassifyCode extracts the HTTP status code from a directory API error.
// Unclassifiable errors (network, auth plumbing) report as 500.
func ClassifyCode(err error) int {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return 500
}

func isTransientCode(code int) bool {
	switch code {
	case 429, 500, 502, 503:
		return true
	}
	return false
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
