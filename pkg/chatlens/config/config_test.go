package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chatlens/chatlens/pkg/chatlens/chat"
	"github.com/chatlens/chatlens/pkg/chatlens/internalerr"
)

const validSettings = `
dataset:
  columns:
    timestamp: timestamp
    author: author
    message: message
  database: chat.db
  output_dir: img
cleaning:
  system_author: glittering-penguin
  aliases:
    - canonical: effervescent-mongoose
      alias: old-number
  patterns:
    - name: returns
      expr: "[\\r\\n]+"
      replace: " "
    - name: mentions
      expr: "@\\S+"
languages:
  media_markers: ["<media", "http", "www."]
  languages:
    - label: NL
      stopwords: [ik, jij, niet]
      frequent_words: [hoi]
    - label: IT
      stopwords: [io, non]
      frequent_words: [ciao]
topics:
  people_topic: People
  topics:
    - name: Food
      keywords: [eten, pizza]
    - name: People
      keywords: [mama, papa]
authors:
  birth_years:
    effervescent-mongoose: 1975
windows:
  baseline:
    start: 2019-01-01
    end: 2023-01-01
  highlight:
    start: 2020-03-09
    end: 2021-01-15
`

func writeSettings(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settings.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write settings: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	s, err := Load(writeSettings(t, validSettings))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Dataset.TimeLayout != DefaultTimeLayout {
		t.Errorf("expected default time layout, got %q", s.Dataset.TimeLayout)
	}
	if s.Languages.NonVerbalLabel != "Non-verbal" {
		t.Errorf("expected default non-verbal label, got %q", s.Languages.NonVerbalLabel)
	}
	if s.Topics.CatchAll != "Other" {
		t.Errorf("expected default catch-all, got %q", s.Topics.CatchAll)
	}
	if s.Authors.AdultAge != 18 {
		t.Errorf("expected default adult age 18, got %d", s.Authors.AdultAge)
	}
}

func TestLoadRejectsMissingColumns(t *testing.T) {
	bad := `
dataset:
  columns:
    timestamp: timestamp
languages:
  languages:
    - label: NL
topics:
  topics:
    - name: Food
      keywords: [eten]
`
	_, err := Load(writeSettings(t, bad))
	if !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestLoadRejectsBadWindow(t *testing.T) {
	bad := strings.Replace(validSettings, "start: 2019-01-01", "start: not-a-date", 1)
	_, err := Load(writeSettings(t, bad))
	if !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestBuildComponents(t *testing.T) {
	s, err := Load(writeSettings(t, validSettings))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	comp, err := s.Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if comp.Normalizer == nil || comp.Classifier == nil {
		t.Fatal("expected normalizer and classifier")
	}
	if len(comp.Aliases) != 1 || comp.Aliases[0].Alias != "old-number" {
		t.Errorf("unexpected aliases: %v", comp.Aliases)
	}

	if got := comp.Normalizer.Apply("hoi @iedereen"); got != "hoi" {
		t.Errorf("normalizer: got %q", got)
	}
	if label, _ := comp.Classifier.Classify("ciao", false); label != "IT" {
		t.Errorf("classifier: got %q", label)
	}
}

func TestBuildRejectsBadPattern(t *testing.T) {
	s, err := Load(writeSettings(t, validSettings))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s.Cleaning.Patterns = append(s.Cleaning.Patterns, Pattern{Name: "broken", Expr: "[unclosed"})
	if _, err := s.Build(); !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestBuildTaggerExtendsPeople(t *testing.T) {
	s, err := Load(writeSettings(t, validSettings))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tagger, err := s.BuildTagger([]string{"Anna de Vries", "Bram"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	labeled, _, err := tagger.Tag(chat.Table{{Text: "heeft anna dat gezien?"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if labeled[0].Topic != "People" {
		t.Errorf("expected People via author name, got %s", labeled[0].Topic)
	}
}
