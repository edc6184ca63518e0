package di

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/wordpack/pkg/codec"
	"github.com/ssargent/wordpack/pkg/config"
	"github.com/ssargent/wordpack/pkg/harness"
)

func TestHarnessOptionsFromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Format = "schema"
	cfg.Schema.FirstSegmentWords = 8
	cfg.Output.Sync = false

	c := NewContainer(cfg)
	opts, err := c.HarnessOptions()
	require.NoError(t, err)

	assert.Equal(t, codec.Schema, opts.Format)
	assert.Equal(t, 8, opts.Builder.FirstSegmentWords)
	assert.Equal(t, cfg.Schema.TraversalLimitWords, opts.Reader.TraversalLimitWords)
	assert.True(t, opts.Mmap.CopyOnWrite)
	assert.False(t, opts.Sync)
	assert.Same(t, c.GetMetrics(), opts.Recorder)
}

func TestHarnessOptionsUnknownFormat(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Format = "yaml"

	_, err := NewContainer(cfg).Runner()
	assert.True(t, errors.Is(err, codec.ErrUnknownFormat))
}

type countingFactory struct {
	calls int
}

func (f *countingFactory) CreateRunner(opts harness.Options) (*harness.Runner, error) {
	f.calls++
	return harness.NewRunner(opts)
}

func TestSetRunnerFactory(t *testing.T) {
	c := NewContainer(nil)
	f := &countingFactory{}
	c.SetRunnerFactory(f)

	r, err := c.Runner()
	require.NoError(t, err)
	assert.Equal(t, codec.Relocatable, r.Format())
	assert.Equal(t, 1, f.calls)
	assert.Same(t, f, c.GetRunnerFactory())
}
