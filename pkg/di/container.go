// Package di provides dependency injection container
package di

import (
	"github.com/ssargent/wordpack/pkg/codec"
	"github.com/ssargent/wordpack/pkg/codec/schema"
	"github.com/ssargent/wordpack/pkg/config"
	"github.com/ssargent/wordpack/pkg/harness"
	"github.com/ssargent/wordpack/pkg/metrics"
	"github.com/ssargent/wordpack/pkg/mmap"
)

// RunnerFactory builds harness runners
type RunnerFactory interface {
	CreateRunner(opts harness.Options) (*harness.Runner, error)
}

// DefaultRunnerFactory is the default implementation of RunnerFactory
type DefaultRunnerFactory struct{}

// CreateRunner builds a runner with harness.NewRunner
func (DefaultRunnerFactory) CreateRunner(opts harness.Options) (*harness.Runner, error) {
	return harness.NewRunner(opts)
}

// Container holds all the dependencies for the application
type Container struct {
	config        *config.Config
	metrics       *metrics.Metrics
	runnerFactory RunnerFactory
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *config.Config) *Container {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Container{
		config:        cfg,
		metrics:       metrics.New(),
		runnerFactory: DefaultRunnerFactory{},
	}
}

// GetConfig returns the active configuration
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// SetConfig replaces the active configuration
func (c *Container) SetConfig(cfg *config.Config) {
	c.config = cfg
}

// GetMetrics returns the Prometheus recorder shared by every runner
func (c *Container) GetMetrics() *metrics.Metrics {
	return c.metrics
}

// GetRunnerFactory returns the runner factory
func (c *Container) GetRunnerFactory() RunnerFactory {
	return c.runnerFactory
}

// SetRunnerFactory allows overriding the runner factory (for testing)
func (c *Container) SetRunnerFactory(factory RunnerFactory) {
	c.runnerFactory = factory
}

// HarnessOptions translates the configuration into runner options.
func (c *Container) HarnessOptions() (harness.Options, error) {
	format, err := codec.ParseFormat(c.config.Format)
	if err != nil {
		return harness.Options{}, err
	}
	return harness.Options{
		Format: format,
		Builder: schema.BuilderOptions{
			FirstSegmentWords: c.config.Schema.FirstSegmentWords,
		},
		Reader: schema.ReaderOptions{
			TraversalLimitWords: c.config.Schema.TraversalLimitWords,
			MaxSegments:         c.config.Schema.MaxSegments,
		},
		Mmap:     mmap.Options{CopyOnWrite: c.config.Mmap.CopyOnWrite},
		Sync:     c.config.Output.Sync,
		Recorder: c.metrics,
	}, nil
}

// Runner builds a runner from the active configuration
func (c *Container) Runner() (*harness.Runner, error) {
	opts, err := c.HarnessOptions()
	if err != nil {
		return nil, err
	}
	return c.runnerFactory.CreateRunner(opts)
}
