package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/sirupsen/logrus"

	"github.com/chatlens/chatlens/pkg/chatlens/config"
	"github.com/chatlens/chatlens/pkg/chatlens/embed"
	"github.com/chatlens/chatlens/pkg/chatlens/store/sqlite"
)

// embeddedRow pairs one vector with its row metadata. The 2-D reduction
// runs elsewhere; this file is its input.
type embeddedRow struct {
	Text     string    `json:"text"`
	Author   string    `json:"author"`
	Topic    string    `json:"topic"`
	Language string    `json:"language"`
	Vector   []float64 `json:"vector"`
}

func main() {
	var (
		configPath = flag.String("config", "", "Path to settings YAML (required)")
		out        = flag.String("out", "embeddings.json", "Output path for vectors + metadata")
		batchSize  = flag.Int("batch", 256, "Texts per embedding request")
	)
	flag.Parse()

	if *configPath == "" {
		log.Fatal("--config required")
	}
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		log.Fatal("OPENAI_API_KEY not set")
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

	// Topic tags are needed in the metadata; tag a copy here rather
	// than requiring a tagged export.
	tagger, err := settings.BuildTagger(table.Authors())
	if err != nil {
		logger.Fatalf("build tagger: %v", err)
	}
	tagged, _, err := tagger.Tag(table)
	if err != nil {
		logger.WithError(err).Warn("topic partition inconsistent, metadata keeps partial tags")
	}

	texts, meta := embed.Dataset(tagged, settings.Languages.NonVerbalLabel, settings.Embedding.MinLogLength)
	if len(texts) == 0 {
		logger.Fatal("no rows above the embedding length threshold")
	}
	logger.WithField("rows", len(texts)).Info("embedding verbal subset")

	model := settings.Embedding.Model
	if model == "" {
		model = "text-embedding-3-small"
	}

	client := openai.NewClient(option.WithAPIKey(apiKey))
	embedder := &embed.OpenAIEmbedder{Client: &client, Model: model, BatchSize: *batchSize}

	vectors, err := embedder.Embed(ctx, texts)
	if err != nil {
		logger.Fatalf("embed: %v", err)
	}

	rows := make([]embeddedRow, len(texts))
	for i := range texts {
		rows[i] = embeddedRow{
			Text:     texts[i],
			Author:   meta[i].Author,
			Topic:    meta[i].Topic,
			Language: meta[i].Language,
			Vector:   vectors[i],
		}
	}

	f, err := os.Create(*out)
	if err != nil {
		logger.Fatalf("create output: %v", err)
	}
	defer f.Close()
	if err := json.NewEncoder(f).Encode(rows); err != nil {
		logger.Fatalf("write output: %v", err)
	}
	logger.WithFields(logrus.Fields{"path": *out, "rows": len(rows)}).Info("embeddings written")
}
