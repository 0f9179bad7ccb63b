package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/peter-kozarec/barsim/pkg/bus"
	"github.com/peter-kozarec/barsim/pkg/data/duckdb"
	"github.com/peter-kozarec/barsim/pkg/data/historical"
	"github.com/peter-kozarec/barsim/pkg/dbg"
	"github.com/peter-kozarec/barsim/pkg/exchange/sandbox"
	"github.com/peter-kozarec/barsim/pkg/ledger"
	"github.com/peter-kozarec/barsim/pkg/market"
	"github.com/peter-kozarec/barsim/pkg/metrics"
	"github.com/peter-kozarec/barsim/pkg/middleware"
	"github.com/peter-kozarec/barsim/pkg/report"
	"github.com/peter-kozarec/barsim/pkg/simulation"
	"github.com/peter-kozarec/barsim/pkg/strategy"
	"github.com/peter-kozarec/barsim/pkg/utility/fixed"
)

const version = "0.1.0"

func main() {
	configPath := flag.String("config", "barsim.yaml", "path to the run configuration")
	flag.Parse()

	logger := dbg.NewDevLogger()
	defer func(logger *zap.Logger) {
		_ = logger.Sync()
	}(logger)
	dbg.RedirectSlog(logger)

	logger.Info(fmt.Sprintf("barsim %s", version))
	defer logger.Info("done")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, logger, *configPath); err != nil {
		logger.Fatal("run failed", zap.Error(err))
	}
}

func run(ctx context.Context, logger *zap.Logger, configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	source, cleanup, err := openSource(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	periods, err := metrics.Periods(cfg.Annualization).Factor()
	if err != nil {
		return err
	}

	stream, err := market.NewStream(ctx, source, cfg.Symbols...)
	if err != nil {
		return err
	}

	router := bus.NewRouter(cfg.QueueCapacity)

	macross, err := strategy.NewMACross(router, stream, cfg.Strategy.ShortWindow, cfg.Strategy.LongWindow)
	if err != nil {
		return err
	}
	book := ledger.NewLedger(router, stream, stream.StartTime(), fixed.FromFloat64(cfg.InitialCapital))
	executor := sandbox.NewExecutor(router, stream)

	telemetry := middleware.NewTelemetry()
	decorators := []simulation.Decorator{telemetry}
	if cfg.MonitorEvents {
		decorators = append(decorators, middleware.NewMonitor(middleware.MonitorAll))
	}

	runner := simulation.NewRunner(router, stream, macross, book, executor,
		simulation.WithDecorators(decorators...),
		simulation.WithHeartbeat(cfg.Heartbeat),
		simulation.WithPeriodsPerYear(periods))

	result, err := runner.Run(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Warn("run interrupted")
			return nil
		}
		return err
	}

	router.Statistics().Print()
	telemetry.PrintStatistics()
	result.Summary.Print()

	if cfg.Output != "" {
		if err := report.WriteCurveFile(cfg.Output, result.Curve); err != nil {
			return err
		}
		logger.Info("equity curve written", zap.String("path", cfg.Output))
	}
	return nil
}

func openSource(cfg *config) (market.BarSource, func(), error) {
	switch cfg.Source.Driver {
	case "duckdb":
		reader := duckdb.NewReader(cfg.Source.Database)
		if err := reader.Connect(); err != nil {
			return nil, nil, err
		}
		return reader, reader.Close, nil
	case "binary":
		if len(cfg.Source.Files) == 0 {
			return nil, nil, errors.New("binary source lists no files")
		}
		return historical.NewBarReader(cfg.Source.Files), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unsupported source driver %q", cfg.Source.Driver)
	}
}
