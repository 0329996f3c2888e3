package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/chatlens/chatlens/internal/export"
	"github.com/chatlens/chatlens/pkg/chatlens/aggregate"
	"github.com/chatlens/chatlens/pkg/chatlens/chat"
	"github.com/chatlens/chatlens/pkg/chatlens/config"
	"github.com/chatlens/chatlens/pkg/chatlens/internalerr"
	"github.com/chatlens/chatlens/pkg/chatlens/store/sqlite"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to settings YAML (required)")
		report     = flag.String("report", "all", "Report to produce: languages, weekly, topics, ageemoji or all")
		topK       = flag.Int("top-authors", 5, "Number of most active authors to log")
		window     = flag.Int("window", 4, "Moving-average window for weekly series")
	)
	flag.Parse()

	if *configPath == "" {
		log.Fatal("--config required")
	}

	logger := logrus.New()
	ctx := context.Background()

	settings, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("load settings: %v", err)
	}

	st, err := sqlite.Open(ctx, settings.Dataset.Database)
	if err != nil {
		logger.Fatalf("open store: %v", err)
	}
	defer st.Close()

	table, err := st.Messages(ctx)
	if err != nil {
		logger.Fatalf("load cleaned table: %v", err)
	}
	if len(table) == 0 {
		logger.Fatal("store is empty, run chatlens-clean first")
	}

	if settings.Dataset.OutputDir != "" {
		if err := os.MkdirAll(settings.Dataset.OutputDir, 0o755); err != nil {
			logger.Fatalf("create output dir: %v", err)
		}
	}

	logSummary(logger, table, *topK)

	reports := map[string]func(*logrus.Logger, *config.Settings, chat.Table, int) error{
		"languages": languageReport,
		"weekly": func(l *logrus.Logger, s *config.Settings, t chat.Table, _ int) error {
			return weeklyReport(l, s, t, *window)
		},
		"topics":   topicReport,
		"ageemoji": ageEmojiReport,
	}
	order := []string{"languages", "weekly", "topics", "ageemoji"}

	// One report failing must not take the rest of the batch down.
	for _, name := range order {
		if *report != "all" && *report != name {
			continue
		}
		if err := reports[name](logger, settings, table, 0); err != nil {
			logger.WithError(err).Errorf("report %s failed, continuing", name)
		}
	}
}

func logSummary(logger *logrus.Logger, table chat.Table, topK int) {
	first, last, _ := table.Span()
	logger.WithFields(logrus.Fields{
		"rows":    len(table),
		"authors": len(table.Authors()),
		"from":    first.Format("2006-01-02"),
		"to":      last.Format("2006-01-02"),
	}).Info("cleaned table loaded")
	logger.WithField("top", aggregate.TopAuthors(table, topK)).Info("most active authors")
}

func languageReport(logger *logrus.Logger, settings *config.Settings, table chat.Table, _ int) error {
	rows := aggregate.LanguageShareByAuthor(table, settings.Languages.NonVerbalLabel)

	records := make([][]string, len(rows))
	for i, r := range rows {
		records[i] = []string{r.Author, pct(r.Verbal), pct(r.NonVerbal), strconv.Itoa(r.Total)}
	}
	path := filepath.Join(settings.Dataset.OutputDir, "language_share.csv")
	if err := export.WriteTable(path, []string{"author", "verbal_pct", "non_verbal_pct", "messages"}, records); err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{"path": path, "authors": len(rows)}).Info("language share written")
	return nil
}

func weeklyReport(logger *logrus.Logger, settings *config.Settings, table chat.Table, window int) error {
	if err := writeWeekly(settings, table, settings.Windows.Baseline, "weekly_baseline.csv", window); err != nil {
		return err
	}
	if err := writeWeekly(settings, table, settings.Windows.Highlight, "weekly_highlight.csv", window); err != nil {
		return err
	}
	logger.WithField("dir", settings.Dataset.OutputDir).Info("weekly series written")
	return nil
}

func writeWeekly(settings *config.Settings, table chat.Table, win config.Window, name string, window int) error {
	start, end, err := win.Range()
	if err != nil {
		return err
	}

	slice := table
	if !start.IsZero() || !end.IsZero() {
		slice = table.Between(start, end)
	}

	series := aggregate.WeeklyCounts(slice)
	smoothed := series.MovingAverage(window)

	records := make([][]string, len(series.Weeks))
	for i, wk := range series.Weeks {
		records[i] = []string{wk, strconv.Itoa(series.Counts[i]), strconv.FormatFloat(smoothed[i], 'f', 2, 64)}
	}
	path := filepath.Join(settings.Dataset.OutputDir, name)
	return export.WriteTable(path, []string{"year_week", "messages", "moving_avg"}, records)
}

func topicReport(logger *logrus.Logger, settings *config.Settings, table chat.Table, _ int) error {
	tagger, err := settings.BuildTagger(table.Authors())
	if err != nil {
		return err
	}

	_, part, err := tagger.Tag(table)
	if err != nil {
		if errors.Is(err, internalerr.ErrPartitionMismatch) {
			// Skip the export rather than persist skewed percentages.
			logger.WithError(err).Warn("topic partition inconsistent, skipping topic report")
			return nil
		}
		return err
	}

	share := aggregate.HourlyByTopic(part)
	header := append([]string{"hour"}, share.Topics...)
	records := make([][]string, 24)
	for h := 0; h < 24; h++ {
		row := make([]string, 0, len(header))
		row = append(row, strconv.Itoa(h))
		for _, topic := range share.Topics {
			row = append(row, pct(share.Share[topic][h]))
		}
		records[h] = row
	}
	path := filepath.Join(settings.Dataset.OutputDir, "hourly_topic_share.csv")
	if err := export.WriteTable(path, header, records); err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{"path": path, "topics": len(share.Topics)}).Info("hourly topic share written")
	return nil
}

func ageEmojiReport(logger *logrus.Logger, settings *config.Settings, table chat.Table, _ int) error {
	rows, missing := aggregate.MeanLogLengthByAgeEmoji(table, settings.Authors.BirthYears, settings.Authors.AdultAge)
	if missing > 0 {
		logger.WithField("rows", missing).Warn("rows excluded: author missing from birth-year lookup")
	}

	records := make([][]string, len(rows))
	for i, r := range rows {
		records[i] = []string{
			strconv.Itoa(r.Age), r.AgeGroup, r.EmojiStatus,
			strconv.FormatFloat(r.MeanLogLength, 'f', 4, 64), strconv.Itoa(r.Count),
		}
	}
	path := filepath.Join(settings.Dataset.OutputDir, "age_emoji.csv")
	if err := export.WriteTable(path, []string{"age", "age_group", "emoji_status", "mean_log_length", "messages"}, records); err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{"path": path, "groups": len(rows)}).Info("age/emoji table written")
	return nil
}

func pct(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
