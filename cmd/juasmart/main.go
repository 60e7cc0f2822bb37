package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/levenlabs/go-lflag"
	"github.com/levenlabs/go-llog"

	"github.com/juasmart/juasmart/pkg/advisor"
	"github.com/juasmart/juasmart/pkg/irradiance"
	"github.com/juasmart/juasmart/pkg/log"
	"github.com/juasmart/juasmart/pkg/refdata"
	"github.com/juasmart/juasmart/pkg/server"
	"github.com/juasmart/juasmart/pkg/storage"
)

func main() {
	// init packages
	db := storage.Configured()
	rd := refdata.Configured()
	advisors := advisor.Configured()
	irr := irradiance.Configured()

	// init server
	srv := server.Configured(rd, advisors, irr, db)

	// when no data directory is configured, reference data comes from storage;
	// the closure defers the lookup until after lflag.Do has picked a provider
	rd.SetFetcher(func(ctx context.Context) (map[string][]byte, error) {
		return db.GetReferenceData(ctx)
	})

	// parse flags
	lflag.Configure()

	var level slog.Level
	// lflag automatically sets llog's level, but we need to set the slog level
	switch llog.GetLevel() {
	case llog.DebugLevel:
		level = slog.LevelDebug
	case llog.InfoLevel:
		level = slog.LevelInfo
	case llog.WarnLevel:
		level = slog.LevelWarn
	case llog.ErrorLevel:
		level = slog.LevelError
	default:
		panic(fmt.Errorf("unknown log level: %s", llog.GetLevel().String()))
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
	slog.Debug("logger configured", slog.String("level", level.String()))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// If initialization inside lflag.Do failed, we wouldn't be here (panic).
	defer func() {
		if err := db.Close(); err != nil {
			log.Ctx(ctx).ErrorContext(ctx, "failed to close storage", "error", err)
		}
	}()

	// Run will block until context is canceled or error happens
	if err := srv.Run(ctx); err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "server failed", "error", err)
		os.Exit(1)
	}
	log.Ctx(ctx).InfoContext(ctx, "server exited cleanly")
}
