package cmd

import (
	"io"
	"log/slog"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/ssargent/wordpack/pkg/config"
	"github.com/ssargent/wordpack/pkg/di"
	"github.com/ssargent/wordpack/pkg/harness"
)

var container *di.Container

// SetContainer injects the dependency container used by Execute.
func SetContainer(c *di.Container) {
	container = c
}

// app is the state shared by one command invocation.
type app struct {
	container *di.Container
	logger    *slog.Logger
}

// NewRootCmd builds the command tree around c.
func NewRootCmd(c *di.Container) *cobra.Command {
	a := &app{container: c, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}

	root := &cobra.Command{
		Use:   "wordpack",
		Short: "wordpack - zero-copy line encoding harness",
		Long: `wordpack encodes text files line by line into one of two binary layouts,
maps the encoded file back into memory and checksums the decoded lines.

Layouts:
  relocatable  in-place layout fixed up by one offset patching pass
  schema       segmented message read lazily through typed accessors`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			_, err := harness.ParseMode(args[0])
			return err
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "Path to the YAML config file (default "+config.GetDefaultConfigPath()+" if present)")
	flags.StringP("format", "f", "", "Binary layout: relocatable or schema")
	flags.String("log-level", "", "Log level: debug, info, warn or error")
	flags.String("log-format", "", "Log format: text or json")
	flags.String("metrics-file", "", "Write Prometheus metrics in textfile format to this path")
	flags.Bool("no-sync", false, "Skip fsync after writing the encoded file")

	root.AddCommand(
		newEncodeCmd(a),
		newDecodeNthCmd(a),
		newDecodeAllCmd(a),
		newVerifyCmd(a),
		newConfigCmd(),
	)
	return root
}

// Execute runs the command tree around the injected container. This is called
// by main.main().
func Execute() error {
	if container == nil {
		return errors.New("dependency container not initialized")
	}
	return NewRootCmd(container).Execute()
}

// setup loads the config file, applies flag overrides and builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	flags := cmd.Flags()

	path, _ := flags.GetString("config")
	explicit := path != ""
	if !explicit {
		path = config.GetDefaultConfigPath()
	}
	if explicit || config.ConfigExists(path) {
		cfg, err := config.LoadConfig(path)
		if err != nil {
			return err
		}
		a.container.SetConfig(cfg)
	}

	cfg := a.container.GetConfig()
	if v, _ := flags.GetString("format"); v != "" {
		cfg.Format = v
	}
	if v, _ := flags.GetString("log-level"); v != "" {
		cfg.Logging.Level = v
	}
	if v, _ := flags.GetString("log-format"); v != "" {
		cfg.Logging.Format = v
	}
	if v, _ := flags.GetString("metrics-file"); v != "" {
		cfg.Metrics.Textfile = v
	}
	if v, _ := flags.GetBool("no-sync"); v {
		cfg.Output.Sync = false
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	a.logger = newLogger(cmd.ErrOrStderr(), cfg.Logging)
	a.logger.Debug("configuration loaded", "format", cfg.Format, "config", path)
	return nil
}

// run wraps a harness command: it builds the runner, logs the outcome and
// exports metrics whether or not the command succeeded.
func (a *app) run(mode harness.Mode, fn func(cmd *cobra.Command, r *harness.Runner, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		log := a.logger.With("mode", mode.String())
		defer func() {
			if err != nil {
				log.Error("command failed", "error", err)
			}
			if perr := a.writeMetrics(); perr != nil && err == nil {
				err = perr
			}
		}()

		r, err := a.container.Runner()
		if err != nil {
			return err
		}
		log = log.With("format", r.Format().String())
		log.Debug("starting")
		return fn(cmd, r, args)
	}
}

func (a *app) writeMetrics() error {
	path := a.container.GetConfig().Metrics.Textfile
	if path == "" {
		return nil
	}
	if err := a.container.GetMetrics().WriteTextfile(path); err != nil {
		return err
	}
	a.logger.Debug("metrics written", "path", path)
	return nil
}
