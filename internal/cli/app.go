package cli

import (
	"fmt"
	"io"

	"github.com/harun/agenda/internal/config"
	"github.com/harun/agenda/internal/logger"
	"github.com/harun/agenda/pkg/annotate"
	"github.com/harun/agenda/pkg/recommend"
	"github.com/harun/agenda/pkg/store"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// app bundles what every session command needs.
type app struct {
	cfg    *config.Config
	log    *logger.Logger
	store  *store.Store
	out    io.Writer
	errOut io.Writer
}

// loadConfig applies the global flag overrides on top of the config file.
func loadConfig() (*config.Config, error) {
	cfg, err := config.NewLoader(cfgFile).Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if logLevel != "" {
		if err := config.NewValidator().ValidateLogLevel(logLevel); err != nil {
			return nil, err
		}
		cfg.Logging.Level = logLevel
	}
	if dataDir != "" {
		cfg.SetDataDir(dataDir)
	}

	return cfg, nil
}

func loggerConfig(cfg *config.Config, errOut io.Writer) logger.Config {
	return logger.Config{
		Level:    cfg.Logging.Level,
		File:     cfg.Logging.File,
		Console:  cfg.Logging.Console,
		Pretty:   cfg.Logging.Pretty,
		MaxSize:  cfg.Logging.MaxSize,
		MaxAge:   cfg.Logging.MaxAge,
		Compress: cfg.Logging.Compress,
		Output:   errOut,
	}
}

// newApp loads config, starts logging and loads the store. Corrupt lines are
// reported on stderr and do not stop the command.
func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	errOut := cmd.ErrOrStderr()
	l, err := logger.New(loggerConfig(cfg, errOut))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	st, err := store.New(cfg.DataDir, store.WithLogger(l.Component("store")))
	if err != nil {
		l.Close()
		return nil, err
	}

	report, err := st.Load()
	if err != nil {
		l.Close()
		return nil, err
	}

	for _, c := range report.Corrupt {
		fmt.Fprintf(errOut, "warning: skipped corrupt record: %v\n", c)
	}
	if report.HasCorruption() {
		fmt.Fprintf(errOut, "warning: %d corrupt record(s) will be moved to %s on the next save\n",
			len(report.Corrupt), store.QuarantineFile)
	}

	return &app{
		cfg:    cfg,
		log:    l,
		store:  st,
		out:    cmd.OutOrStdout(),
		errOut: errOut,
	}, nil
}

func (a *app) Close() error {
	return a.log.Close()
}

func (a *app) zlog(component string) zerolog.Logger {
	return a.log.Component(component)
}

func (a *app) annotator() *annotate.Manager {
	return annotate.NewManager(a.store, annotate.WithLogger(a.zlog("annotate")))
}

func (a *app) recommender() (*recommend.Recommender, error) {
	return recommend.New(a.store,
		recommend.WithMinRating(a.cfg.Recommend.MinRating),
		recommend.WithWeights(recommend.Weights{
			Track:    a.cfg.Recommend.TrackWeight,
			Tag:      a.cfg.Recommend.TagWeight,
			Interest: a.cfg.Recommend.InterestWeight,
		}),
	)
}

// withApp wraps a RunE body that needs a loaded store.
func withApp(fn func(a *app, cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()
		return fn(a, cmd, args)
	}
}
