package shell

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/giovaniif/items/domain/item"
	"github.com/giovaniif/items/infra/config"
	"github.com/giovaniif/items/infra/logging"
	"github.com/giovaniif/items/infra/metrics"
	"github.com/giovaniif/items/infra/repositories"
	"github.com/giovaniif/items/infra/tracing"
)

// RootOptions holds the flags of the items command.
type RootOptions struct {
	ConfigPath string
	Strict     bool
	LogLevel   string
}

func NewRootCommand(in io.Reader, out, errOut io.Writer) *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "items",
		Short:         "Interactive in-memory item list",
		Long:          "Reads commands from stdin and applies them to one in-memory item store for the whole session.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.ConfigPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("strict") {
				cfg.StrictMissing = opts.Strict
			}
			if opts.LogLevel != "" {
				cfg.LogLevel = opts.LogLevel
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return StartShell(cmd.Context(), cfg, in, out, errOut)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "path to a TOML config file")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "report updates and deletes of unknown ids as errors")
	cmd.Flags().StringVar(&opts.LogLevel, "log-level", "", "log level (debug|info|warn|error)")
	cmd.SetIn(in)
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	return cmd
}

// StartShell wires logging, tracing, metrics and a fresh store, then runs the
// session until stdin is exhausted or the user quits.
func StartShell(ctx context.Context, cfg config.Config, in io.Reader, out, errOut io.Writer) error {
	logger, closeLogger, err := logging.New(logging.Options{
		Level:   cfg.LogLevel,
		Service: cfg.ServiceName,
		LokiURL: cfg.LokiURL,
		Output:  errOut,
	})
	if err != nil {
		return err
	}
	defer closeLogger()

	shutdown, err := tracing.Init(cfg.ServiceName, cfg.OTLPEndpoint)
	if err != nil {
		logger.Warn("tracing disabled", zap.Error(err))
	} else if shutdown != nil {
		defer shutdown()
	}

	registry := prometheus.NewRegistry()
	repository := newItemRepository(cfg, registry)
	session := NewSession(repository, logger, registry, out)

	logger.Info("item store ready", zap.Bool("strict_missing", cfg.StrictMissing))
	return session.Run(ctx, in)
}

func newItemRepository(cfg config.Config, registry prometheus.Registerer) item.Repository {
	var repository item.Repository = repositories.NewItemRepositoryMemory(
		repositories.WithStrictMissing(cfg.StrictMissing),
	)
	repository = metrics.NewItemRepository(repository, metrics.New(registry))
	return tracing.NewItemRepository(repository, nil)
}

// Execute runs the items command against the process streams and returns the exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := NewRootCommand(os.Stdin, os.Stdout, os.Stderr)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "items:", err)
		return 1
	}
	return 0
}
