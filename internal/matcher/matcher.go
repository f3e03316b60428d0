// Package matcher wraps an external statistical responder as an untrusted,
// possibly unavailable signal source.
//
// Availability is decided once, when the Adapter is built. A disabled
// adapter answers every query with an empty result and never touches a
// responder.
package matcher

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"futurechat/internal/logging"
)

// DefaultTimeout bounds one external query.
const DefaultTimeout = 2 * time.Second

var (
	// ErrUnavailable is reported when the responder failed to initialize.
	ErrUnavailable = errors.New("external matcher unavailable")
	// ErrTimeout is reported when a query exceeds the adapter timeout.
	ErrTimeout = errors.New("external matcher timed out")
)

// Response is what a responder returns for one query.
type Response struct {
	Text       string
	Confidence float64
}

// Responder is the external matcher contract.
type Responder interface {
	Name() string
	Respond(ctx context.Context, text string) (Response, error)
	Train(ctx context.Context, prompt, reply string) error
}

// Closer is implemented by responders holding resources.
type Closer interface {
	Close() error
}

// Result is a normalized query outcome. Err is kept for diagnostics only;
// a failed query always has an empty Reply and zero Confidence.
type Result struct {
	Reply      string
	Confidence float64
	Err        error
}

// Found reports whether the result carries a usable reply.
func (r Result) Found() bool { return r.Reply != "" && r.Confidence > 0 }

// Adapter guards calls into a Responder.
type Adapter struct {
	responder Responder
	timeout   time.Duration
	reason    string
}

// Available returns an adapter over r.
func Available(r Responder, timeout time.Duration) *Adapter {
	if r == nil {
		return Disabled("no responder")
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Adapter{responder: r, timeout: timeout}
}

// Disabled returns an adapter that never answers.
func Disabled(reason string) *Adapter {
	return &Adapter{reason: reason}
}

// Factory builds a responder.
type Factory func(ctx context.Context) (Responder, error)

// Init runs factory and returns an available adapter, or a disabled one if
// the factory fails or panics. It never returns an error.
func Init(ctx context.Context, factory Factory, timeout time.Duration) (a *Adapter) {
	defer func() {
		if r := recover(); r != nil {
			logging.MatcherWarn("External matcher init panicked: %v", r)
			a = Disabled(fmt.Sprintf("init panic: %v", r))
		}
	}()
	if factory == nil {
		return Disabled("not configured")
	}
	r, err := factory(ctx)
	if err != nil {
		logging.MatcherWarn("External matcher disabled: %v", err)
		return Disabled(err.Error())
	}
	logging.Matcher("External matcher ready: %s", r.Name())
	return Available(r, timeout)
}

// Enabled reports whether a responder is attached.
func (a *Adapter) Enabled() bool { return a != nil && a.responder != nil }

// Status is a short human-readable availability line.
func (a *Adapter) Status() string {
	if !a.Enabled() {
		if a == nil || a.reason == "" {
			return "disabled"
		}
		return "disabled: " + a.reason
	}
	return "active: " + a.responder.Name()
}

// Query asks the responder for a reply. Failures, panics and timeouts come
// back as an empty Result with Err set.
func (a *Adapter) Query(ctx context.Context, text string) Result {
	if !a.Enabled() {
		return Result{Err: ErrUnavailable}
	}
	if strings.TrimSpace(text) == "" {
		return Result{}
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	type outcome struct {
		resp Response
		err  error
	}
	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("responder panic: %v", r)}
			}
		}()
		resp, err := a.responder.Respond(ctx, text)
		done <- outcome{resp: resp, err: err}
	}()

	select {
	case out := <-done:
		if out.err != nil {
			logging.MatcherWarn("External query failed: %v", out.err)
			return Result{Err: out.err}
		}
		reply := strings.TrimSpace(out.resp.Text)
		conf := clamp(out.resp.Confidence)
		if reply == "" || conf == 0 {
			return Result{}
		}
		logging.MatcherDebug("External reply (%.2f): %q", conf, reply)
		return Result{Reply: reply, Confidence: conf}
	case <-ctx.Done():
		err := ctx.Err()
		if errors.Is(err, context.DeadlineExceeded) {
			err = ErrTimeout
		}
		logging.MatcherWarn("External query abandoned: %v", err)
		return Result{Err: err}
	}
}

// Train feeds a prompt/reply pair to the responder. Failures are logged and
// reported as false; they never propagate.
func (a *Adapter) Train(ctx context.Context, prompt, reply string) (ok bool) {
	if !a.Enabled() {
		return false
	}
	defer func() {
		if r := recover(); r != nil {
			logging.MatcherWarn("Training panicked: %v", r)
			ok = false
		}
	}()
	if err := a.responder.Train(ctx, prompt, reply); err != nil {
		logging.MatcherWarn("Training failed for %q: %v", prompt, err)
		return false
	}
	logging.MatcherDebug("Trained %q -> %q", prompt, reply)
	return true
}

// Close releases the responder if it holds resources.
func (a *Adapter) Close() error {
	if !a.Enabled() {
		return nil
	}
	if c, ok := a.responder.(Closer); ok {
		return c.Close()
	}
	return nil
}

func clamp(v float64) float64 {
	switch {
	case math.IsNaN(v), v <= 0:
		return 0
	case v >= 1:
		return 1
	default:
		return v
	}
}
