package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/chatlens/chatlens/internal/export"
	"github.com/chatlens/chatlens/pkg/chatlens"
	"github.com/chatlens/chatlens/pkg/chatlens/chat"
	"github.com/chatlens/chatlens/pkg/chatlens/config"
	"github.com/chatlens/chatlens/pkg/chatlens/store/sqlite"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to settings YAML (required)")
		input      = flag.String("input", "", "Path to raw chat export (required)")
		format     = flag.String("format", "csv", "Export format: csv or html")
		htmlLayout = flag.String("html-time-layout", "02.01.2006 15:04:05", "Timestamp layout in HTML exports")
		force      = flag.Bool("force", false, "Re-clean even when the store already holds a cleaned table")
	)
	flag.Parse()

	if *configPath == "" {
		log.Fatal("--config required")
	}
	if *input == "" {
		log.Fatal("--input required")
	}

	logger := logrus.New()
	ctx := context.Background()

	settings, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("load settings: %v", err)
	}
	components, err := settings.Build()
	if err != nil {
		logger.Fatalf("build components: %v", err)
	}

	st, err := sqlite.Open(ctx, settings.Dataset.Database)
	if err != nil {
		logger.Fatalf("open store: %v", err)
	}

	engine := chatlens.New(chatlens.Options{
		Settings:   settings,
		Components: components,
		Store:      st,
		Logger:     logger,
	})
	defer engine.Close()

	load := func(ctx context.Context) (chat.Table, error) {
		return loadExport(*input, *format, *htmlLayout, settings, logger)
	}

	if *force {
		raw, err := load(ctx)
		if err != nil {
			logger.Fatalf("load raw table: %v", err)
		}
		table, _ := engine.Clean(ctx, raw)
		if _, err := engine.Persist(ctx, table); err != nil {
			logger.Fatalf("persist: %v", err)
		}
		writeFlatExport(settings, table, logger)
		return
	}

	table, err := engine.Run(ctx, load)
	if err != nil {
		logger.Fatalf("pipeline: %v", err)
	}
	writeFlatExport(settings, table, logger)
}

func loadExport(path, format, htmlLayout string, settings *config.Settings, logger *logrus.Logger) (chat.Table, error) {
	var (
		table chat.Table
		stats export.LoadStats
		err   error
	)
	switch format {
	case "html":
		f, openErr := os.Open(path)
		if openErr != nil {
			return nil, openErr
		}
		defer f.Close()
		table, stats, err = export.ReadHTML(f, htmlLayout)
	default:
		table, stats, err = export.LoadCSV(path, settings.Dataset.Columns, settings.Dataset.TimeLayout)
	}
	if err != nil {
		return nil, err
	}
	if stats.RowsRejected > 0 {
		logger.WithFields(logrus.Fields{"read": stats.RowsRead, "rejected": stats.RowsRejected}).
			Warn("rejected malformed rows during load")
	}
	return table, nil
}

func writeFlatExport(settings *config.Settings, table chat.Table, logger *logrus.Logger) {
	if settings.Dataset.FlatExport == "" {
		return
	}
	// The SQLite store already holds the table; a failed flat export is
	// logged, not fatal.
	if err := export.WriteMessagesCSV(settings.Dataset.FlatExport, table); err != nil {
		logger.WithError(err).Warn("flat export failed")
		return
	}
	logger.WithField("path", settings.Dataset.FlatExport).Info("flat export written")
}
