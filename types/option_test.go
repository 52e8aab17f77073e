package types

import (
	"context"
	"testing"
	"time"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
)

func TestEditorOptionsDefaults(t *testing.T) {
	opts := NewEditorOptions()

	assert.Equal(t, 1500*time.Millisecond, opts.ProcessingDelay)
	assert.Equal(t, 0.1, opts.FailureRate)
	assert.Nil(t, opts.FailureFunc)
	assert.Nil(t, opts.Clock)
	assert.NotNil(t, opts.Ctx)
	assert.Nil(t, opts.Validate())
}

func TestEditorOptions(t *testing.T) {
	type ctxKey struct{}
	ctx := context.WithValue(context.Background(), ctxKey{}, "v")
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := ListenerFunc(func(*Event) {})

	opts := NewEditorOptions()
	for _, opt := range []EditorOption{
		WithContext(ctx),
		WithProcessingDelay(10 * time.Millisecond),
		WithFailureRate(0.5),
		WithClock(func() time.Time { return now }),
		WithListener(l),
		WithListener(l),
	} {
		opt(opts)
	}

	assert.Equal(t, "v", opts.Ctx.Value(ctxKey{}))
	assert.Equal(t, 10*time.Millisecond, opts.ProcessingDelay)
	assert.Equal(t, 0.5, opts.FailureRate)
	assert.Equal(t, now, opts.Clock())
	assert.Len(t, opts.Listeners, 2)
}

func TestNeverFail(t *testing.T) {
	opts := NewEditorOptions()
	NeverFail()(opts)

	assert.NotNil(t, opts.FailureFunc)
	assert.False(t, opts.FailureFunc(Node{ID: "model-1"}))
}

func TestEditorOptionsValidate(t *testing.T) {
	opts := NewEditorOptions()
	WithFailureRate(1.5)(opts)
	assert.True(t, errors.IsBadRequest(opts.Validate()))

	opts = NewEditorOptions()
	WithProcessingDelay(-time.Second)(opts)
	assert.True(t, errors.IsBadRequest(opts.Validate()))

	opts = NewEditorOptions()
	WithFailureRate(0)(opts)
	WithProcessingDelay(0)(opts)
	assert.Nil(t, opts.Validate())
}
