package embed

import (
	"context"
	"testing"

	"github.com/chatlens/chatlens/pkg/chatlens/chat"
)

func TestDatasetFiltersRows(t *testing.T) {
	table := chat.Table{
		{Text: "lang genoeg verhaal hier", Author: "anna", Language: "NL", Topic: "Food", LogLength: 3.2},
		{Text: "<media>", Author: "anna", Language: "Non-verbal", Topic: "Other", LogLength: 3.5},
		{Text: "kort", Author: "bram", Language: "NL", Topic: "Other", LogLength: 1.4},
		{Text: "una storia abbastanza lunga", Author: "carla", Language: "IT", Topic: "Plans", LogLength: 3.3},
	}

	texts, meta := Dataset(table, "Non-verbal", 3)
	if len(texts) != 2 || len(meta) != 2 {
		t.Fatalf("expected 2 rows, got %d texts, %d meta", len(texts), len(meta))
	}
	if texts[0] != "lang genoeg verhaal hier" || meta[0].Topic != "Food" {
		t.Errorf("row 0 mismatch: %q %+v", texts[0], meta[0])
	}
	if meta[1].Language != "IT" || meta[1].Author != "carla" {
		t.Errorf("row 1 mismatch: %+v", meta[1])
	}
}

func TestDatasetEmpty(t *testing.T) {
	texts, meta := Dataset(chat.Table{}, "Non-verbal", 3)
	if len(texts) != 0 || len(meta) != 0 {
		t.Errorf("expected empty dataset, got %d/%d", len(texts), len(meta))
	}
}

type fakeEmbedder struct {
	calls int
}

func (f *fakeEmbedder) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	f.calls++
	out := make([][]float64, len(texts))
	for i := range texts {
		out[i] = []float64{float64(len(texts[i])), 0}
	}
	return out, nil
}

func TestEmbedderAlignment(t *testing.T) {
	table := chat.Table{
		{Text: "eerste bericht lang genoeg", Language: "NL", LogLength: 3.2},
		{Text: "tweede bericht ook lang genoeg", Language: "NL", LogLength: 3.4},
	}
	texts, meta := Dataset(table, "Non-verbal", 3)

	var e Embedder = &fakeEmbedder{}
	vectors, err := e.Embed(context.Background(), texts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vectors) != len(meta) {
		t.Fatalf("vectors not aligned with metadata: %d vs %d", len(vectors), len(meta))
	}
}
