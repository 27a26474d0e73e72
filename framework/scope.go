package framework

import (
	"errors"
	"fmt"
	"regexp"
	"runtime/debug"
	"strings"
)

type environment struct {
	config  Config
	results Results
}

// T represents a test scope. It is deliberately similar to Go's testing.T, and
// it implements the TestingT interface used by testify's assert and require
// packages, so test logic can be written in the usual style even though these
// tests run inside our own runner rather than "go test".
type T struct {
	env         *environment
	id          TestID
	debugLogger CapturingLogger
	failed      bool
	skipped     bool
	skipReason  string
	cleanups    []func()
	errors      []error
}

// Config contains options for an entire test run.
type Config struct {
	// Filter is an optional function for determining which tests to run based on their names.
	Filter Filter

	// TestLogger receives status information about each test.
	TestLogger TestLogger

	// Context is a value of any type defined by the application which can be accessed from tests.
	Context interface{}
}

// Run starts a top-level test scope and returns the accumulated results.
func Run(config Config, action func(*T)) Results {
	if config.TestLogger == nil {
		config.TestLogger = nullTestLogger{}
	}
	env := &environment{config: config}
	t := &T{env: env}
	t.run(action)
	return env.results
}

func (t *T) run(action func(*T)) (result TestResult) {
	result.TestID = t.id
	defer func() {
		if r := recover(); r != nil {
			if t.skipped {
				return
			}
			t.failed = true
			var addError error
			if _, ok := r.(*T); ok {
				// this is the panic we throw from FailNow, not a bug in the test
				if len(t.errors) == 0 {
					addError = errors.New("test failed with no failure message")
				}
			} else {
				addError = fmt.Errorf("unexpected panic in test: %+v\n%s", r, string(debug.Stack()))
			}
			if addError != nil {
				t.errors = append(t.errors, addError)
				t.env.config.TestLogger.TestError(t.id, addError)
			}
		}
		result.Errors = t.errors
		if t.failed {
			t.env.results.Failures = append(t.env.results.Failures, result)
		}
		t.env.results.Tests = append(t.env.results.Tests, result)
		for i := len(t.cleanups) - 1; i >= 0; i-- {
			t.cleanups[i]()
		}
	}()

	action(t)
	return result
}

// ID returns the full name of the current test.
func (t *T) ID() TestID { return t.id }

// Context returns the application-defined context value for this test run.
func (t *T) Context() interface{} { return t.env.config.Context }

// DebugLogger returns a logger that accumulates debug output for this scope.
// The output is only shown according to the console logger's configuration.
func (t *T) DebugLogger() Logger { return &t.debugLogger }

// Run runs a subtest in its own scope, like Go's testing.T.Run.
func (t *T) Run(name string, action func(*T)) {
	id := t.id.Plus(name)

	t.env.config.TestLogger.TestStarted(id)
	if t.env.config.Filter != nil && !t.env.config.Filter(id) {
		t.env.config.TestLogger.TestSkipped(id, "excluded by filter parameters")
		return
	}
	c1 := &T{id: id, env: t.env}
	c1.run(action)
	if c1.skipped {
		t.env.config.TestLogger.TestSkipped(id, c1.skipReason)
	} else {
		t.env.config.TestLogger.TestFinished(id, c1.failed, c1.debugLogger.Output())
	}
}

// Errorf reports a test failure. It is equivalent to Go's testing.T.Errorf: it
// does not cause the test to terminate.
func (t *T) Errorf(format string, args ...interface{}) {
	err := stripTestifyTrace(fmt.Errorf(format, args...))
	t.errors = append(t.errors, err)
	t.failed = true
	t.env.config.TestLogger.TestError(t.id, err)
}

// FailNow causes the test to immediately terminate and be marked as failed.
func (t *T) FailNow() {
	t.failed = true
	panic(t)
}

// Skip causes the test to immediately terminate and be marked as skipped.
func (t *T) Skip() {
	t.skipped = true
	panic(t)
}

func (t *T) SkipWithReason(reason string) {
	t.skipReason = reason
	t.Skip()
}

// Cleanup registers a function that run() will call when the test scope exits,
// in last-in-first-out order.
func (t *T) Cleanup(fn func()) {
	t.cleanups = append(t.cleanups, fn)
}

var testifyTraceRegex = regexp.MustCompile(`^(?s:\s*Error Trace:.*\sError:\s*)`)

// stripTestifyTrace removes the stacktrace block that testify's assert and
// require functions prepend to failure messages; the trace points into the
// harness rather than the test logic and is just noise in our output.
func stripTestifyTrace(err error) error {
	message := err.Error()
	if strings.Contains(message, "Error Trace:") {
		message = strings.TrimSpace(testifyTraceRegex.ReplaceAllLiteralString(message, ""))
	}
	return errors.New(message)
}
