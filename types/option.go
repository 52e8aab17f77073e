package types

import (
	"context"
	"time"

	"github.com/juju/errors"
	"github.com/mcuadros/go-defaults"
)

func NewEditorOptions() *EditorOptions {
	opts := &EditorOptions{Ctx: context.Background()}
	defaults.SetDefaults(opts)
	return opts
}

type EditorOptions struct {
	Ctx context.Context
	/**
	 * default: 1500ms
	 * the simulated work time of every node, whatever its type.
	 */
	ProcessingDelay time.Duration `default:"1500ms"`
	/**
	 * default: 0.1
	 * probability in [0, 1] that a node fails. Ignored when FailureFunc is set.
	 */
	FailureRate float64 `default:"0.1"`
	/**
	 * FailureFunc overrides the random failure draw, tests use it
	 * to force deterministic outcomes.
	 */
	FailureFunc FailureFunc

	// Listeners receive every store event in order.
	Listeners []Listener

	// Clock stamps log entries, time.Now when nil.
	Clock func() time.Time
}

func (o *EditorOptions) Validate() error {
	if o.ProcessingDelay < 0 {
		return errors.BadRequestf("processing delay must not be negative: %v", o.ProcessingDelay)
	}
	if o.FailureRate < 0 || o.FailureRate > 1 {
		return errors.BadRequestf("failure rate must be within [0, 1]: %v", o.FailureRate)
	}
	return nil
}

type EditorOption func(*EditorOptions)

func WithContext(ctx context.Context) EditorOption {
	return func(opts *EditorOptions) {
		opts.Ctx = ctx
	}
}

func WithProcessingDelay(delay time.Duration) EditorOption {
	return func(opts *EditorOptions) {
		opts.ProcessingDelay = delay
	}
}

func WithFailureRate(rate float64) EditorOption {
	return func(opts *EditorOptions) {
		opts.FailureRate = rate
	}
}

func WithFailureFunc(f FailureFunc) EditorOption {
	return func(opts *EditorOptions) {
		opts.FailureFunc = f
	}
}

// NeverFail disables the failure injection.
func NeverFail() EditorOption {
	return WithFailureFunc(func(Node) bool { return false })
}

func WithClock(clock func() time.Time) EditorOption {
	return func(opts *EditorOptions) {
		opts.Clock = clock
	}
}

func WithListener(l Listener) EditorOption {
	return func(opts *EditorOptions) {
		opts.Listeners = append(opts.Listeners, l)
	}
}
