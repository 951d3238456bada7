package main

import (
	"strings"

	"github.com/iwvelando/billet-recovery/internal/audit"
	"github.com/iwvelando/billet-recovery/internal/config"
	"github.com/iwvelando/billet-recovery/internal/optimizer"
	"github.com/iwvelando/billet-recovery/pkg/constants"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app holds the state shared by every command once the root command has
// loaded the configuration.
type app struct {
	configLocation string
	logLevel       string

	conf   *config.Configuration
	logger *zap.Logger
	level  zap.AtomicLevel
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "billet-recovery",
		Short: "Pick the billet length that recovers the most extruded material",
		Long: "Scores the stocked billet lengths for a die and cut setup, reports the recovery of each " +
			"and selects the one that recovers the most material while leaving a scrap margin above 15%.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&a.configLocation, "config", constants.DefaultConfigFile, "path to configuration file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	root.AddCommand(
		newOptimizeCmd(a),
		newServeCmd(a),
		newCandidatesCmd(a),
		newVersionCmd(),
	)
	return root
}

// setup loads the configuration and initializes logging.
func (a *app) setup() error {
	conf, err := config.LoadConfiguration(a.configLocation)
	if err != nil {
		return eris.Wrapf(err, "failed to load configuration at %s", a.configLocation)
	}
	if a.logLevel != "" {
		conf.Logging.Level = strings.ToLower(strings.TrimSpace(a.logLevel))
	}
	if err := conf.Validate(); err != nil {
		return eris.Wrap(err, "invalid configuration")
	}

	logger, level, err := initializeLogger(conf.Logging, "")
	if err != nil {
		return eris.Wrap(err, "failed to initialize logger")
	}

	a.conf = conf
	a.logger = logger
	a.level = level
	return nil
}

// warn logs the non-fatal configuration warnings for conf.
func (a *app) warn(conf *config.Configuration, op string) {
	for _, warning := range conf.ValidateConfiguration() {
		a.logger.Warn("Configuration warning: "+warning,
			zap.String("op", op),
		)
	}
}

// newRunner builds an optimizer runner, attaching the audit log when enabled.
func (a *app) newRunner() (*optimizer.Runner, error) {
	var opts []optimizer.Option
	if a.conf.Audit.Enabled {
		sink, err := audit.NewCSVSink(a.conf.Audit.Path)
		if err != nil {
			return nil, err
		}
		a.logger.Debug("audit log enabled",
			zap.String("op", "main"),
			zap.String("path", sink.Path()),
		)
		opts = append(opts, optimizer.WithAuditSink(sink))
	}
	return optimizer.NewRunner(a.logger, opts...), nil
}

// applyLogLevel updates the running log level from a reloaded configuration.
// A --log-level override keeps precedence over the file.
func (a *app) applyLogLevel(conf *config.Configuration) {
	if a.logLevel != "" {
		return
	}
	lvl, err := parseLevel(conf.Logging.Level)
	if err != nil {
		a.logger.Warn("ignoring invalid reloaded log level",
			zap.String("op", "main"),
			zap.String("level", conf.Logging.Level),
		)
		return
	}
	if lvl == a.level.Level() {
		return
	}
	a.level.SetLevel(lvl)
	a.logger.Info("log level changed",
		zap.String("op", "main"),
		zap.String("level", lvl.String()),
	)
}
