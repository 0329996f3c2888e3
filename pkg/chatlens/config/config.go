package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/chatlens/chatlens/pkg/chatlens/internalerr"
)

// Settings is the externalized configuration: column mapping, cleaning
// rules, language and topic lists, author metadata, and analysis
// windows. Nothing in the pipeline hard-codes any of these.
type Settings struct {
	Dataset   Dataset   `yaml:"dataset"`
	Cleaning  Cleaning  `yaml:"cleaning"`
	Languages Languages `yaml:"languages"`
	Topics    Topics    `yaml:"topics"`
	Authors   Authors   `yaml:"authors"`
	Windows   Windows   `yaml:"windows"`
	Embedding Embedding `yaml:"embedding"`
}

// Dataset locates the input and output data and maps logical field
// names onto the physical column names of the export.
type Dataset struct {
	Columns    Columns `yaml:"columns"`
	TimeLayout string  `yaml:"time_layout"`
	Database   string  `yaml:"database"`
	FlatExport string  `yaml:"flat_export"`
	OutputDir  string  `yaml:"output_dir"`
}

// Columns maps logical fields to column names in the raw export.
type Columns struct {
	Timestamp string `yaml:"timestamp"`
	Author    string `yaml:"author"`
	Message   string `yaml:"message"`
}

// Cleaning configures the filter and normalization stages.
type Cleaning struct {
	SystemAuthor string    `yaml:"system_author"`
	Aliases      []Alias   `yaml:"aliases"`
	Patterns     []Pattern `yaml:"patterns"`
}

// Alias declares two author identities as the same person.
type Alias struct {
	Canonical string `yaml:"canonical"`
	Alias     string `yaml:"alias"`
}

// Pattern is one normalization rule, applied in file order.
type Pattern struct {
	Name    string `yaml:"name"`
	Expr    string `yaml:"expr"`
	Replace string `yaml:"replace"`
}

// Languages configures the classifier.
type Languages struct {
	NonVerbalLabel string     `yaml:"non_verbal_label"`
	MediaMarkers   []string   `yaml:"media_markers"`
	Languages      []Language `yaml:"languages"`
}

// Language is one recognizable language. Code optionally selects a
// baseline stopword set by ISO code.
type Language struct {
	Label         string   `yaml:"label"`
	Code          string   `yaml:"code"`
	Stopwords     []string `yaml:"stopwords"`
	FrequentWords []string `yaml:"frequent_words"`
}

// Topics configures the tagger. Order in the list is cascade priority.
type Topics struct {
	CatchAll    string  `yaml:"catch_all"`
	PeopleTopic string  `yaml:"people_topic"`
	Topics      []Topic `yaml:"topics"`
}

// Topic is one keyword bucket.
type Topic struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// Authors carries static author metadata for the age aggregation.
type Authors struct {
	BirthYears map[string]int `yaml:"birth_years"`
	AdultAge   int            `yaml:"adult_age"`
}

// Windows are the analysis date ranges for weekly aggregation.
type Windows struct {
	Baseline  Window `yaml:"baseline"`
	Highlight Window `yaml:"highlight"`
}

// Window is a date range, exclusive start, inclusive end.
type Window struct {
	Start string `yaml:"start"`
	End   string `yaml:"end"`
}

// Range parses the window bounds as calendar dates.
func (w Window) Range() (start, end time.Time, err error) {
	const layout = "2006-01-02"
	if w.Start == "" && w.End == "" {
		return time.Time{}, time.Time{}, nil
	}
	start, err = time.Parse(layout, w.Start)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: window start %q: %v", internalerr.ErrInvalidConfig, w.Start, err)
	}
	end, err = time.Parse(layout, w.End)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: window end %q: %v", internalerr.ErrInvalidConfig, w.End, err)
	}
	return start, end, nil
}

// Embedding configures the external embedding collaborator.
type Embedding struct {
	Model        string  `yaml:"model"`
	MinLogLength float64 `yaml:"min_log_length"`
}

// DefaultTimeLayout parses timestamps like "2022-01-18 15:04:05".
const DefaultTimeLayout = "2006-01-02 15:04:05"

// Load reads and validates the settings file. Validation is strict:
// a missing column mapping or an unparseable window fails here, before
// any data is touched. Regexes and keyword automatons are compiled by
// Build, also at startup.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrInvalidConfig, err)
	}

	if s.Dataset.TimeLayout == "" {
		s.Dataset.TimeLayout = DefaultTimeLayout
	}
	if s.Languages.NonVerbalLabel == "" {
		s.Languages.NonVerbalLabel = "Non-verbal"
	}
	if s.Topics.CatchAll == "" {
		s.Topics.CatchAll = "Other"
	}
	if s.Authors.AdultAge == 0 {
		s.Authors.AdultAge = 18
	}

	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Settings) validate() error {
	cols := s.Dataset.Columns
	if cols.Timestamp == "" || cols.Author == "" || cols.Message == "" {
		return fmt.Errorf("%w: dataset.columns must map timestamp, author and message", internalerr.ErrInvalidConfig)
	}
	if len(s.Languages.Languages) == 0 {
		return fmt.Errorf("%w: at least one language must be configured", internalerr.ErrInvalidConfig)
	}
	if len(s.Topics.Topics) == 0 {
		return fmt.Errorf("%w: at least one topic must be configured", internalerr.ErrInvalidConfig)
	}
	if _, _, err := s.Windows.Baseline.Range(); err != nil {
		return err
	}
	if _, _, err := s.Windows.Highlight.Range(); err != nil {
		return err
	}
	return nil
}
