package lang

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/orsinium-labs/stopwords"

	"github.com/chatlens/chatlens/pkg/chatlens/internalerr"
)

// Config describes the classifier: the ordered language list, the label
// for non-verbal traffic, and the substring markers that flag media
// placeholders and links.
type Config struct {
	NonVerbalLabel string
	MediaMarkers   []string
	Languages      []Language
}

// Language is one recognizable language: a label, an optional ISO code
// selecting a baseline stopword set from the stopwords library, and the
// hand-tuned word lists that extend the baseline.
type Language struct {
	Label         string
	Code          string
	Stopwords     []string
	FrequentWords []string
}

type langSet struct {
	label    string
	words    map[string]struct{}
	baseline *stopwords.Stopwords
}

func (s langSet) contains(token string) bool {
	if _, ok := s.words[token]; ok {
		return true
	}
	return s.baseline != nil && s.baseline.Contains(token)
}

// Classifier assigns each message a language label or the non-verbal
// label. This is a marker heuristic over stopword sets, not a language
// model; precision comes from the configured word lists.
type Classifier struct {
	nonVerbal string
	markers   []string
	langs     []langSet
	fallback  string
}

// NewClassifier builds a classifier from config. Languages are kept in
// configured order; the first one doubles as the fallback label for
// verbal text that matches nothing.
func NewClassifier(cfg Config) (*Classifier, error) {
	if len(cfg.Languages) == 0 {
		return nil, fmt.Errorf("%w: no languages configured", internalerr.ErrInvalidConfig)
	}
	if cfg.NonVerbalLabel == "" {
		return nil, fmt.Errorf("%w: non-verbal label is empty", internalerr.ErrInvalidConfig)
	}

	c := &Classifier{
		nonVerbal: cfg.NonVerbalLabel,
		fallback:  cfg.Languages[0].Label,
	}
	for _, m := range cfg.MediaMarkers {
		if m = strings.ToLower(strings.TrimSpace(m)); m != "" {
			c.markers = append(c.markers, m)
		}
	}

	for _, lc := range cfg.Languages {
		if lc.Label == "" {
			return nil, fmt.Errorf("%w: language with empty label", internalerr.ErrInvalidConfig)
		}
		set := langSet{label: lc.Label, words: make(map[string]struct{})}
		for _, w := range lc.Stopwords {
			set.words[strings.ToLower(w)] = struct{}{}
		}
		for _, w := range lc.FrequentWords {
			set.words[strings.ToLower(w)] = struct{}{}
		}
		if lc.Code != "" {
			// MustGet panics on an unknown code, which surfaces a bad
			// config at startup rather than mislabeling rows later.
			set.baseline = stopwords.MustGet(lc.Code)
		}
		c.langs = append(c.langs, set)
	}
	return c, nil
}

// Classify labels one message. hasEmoji must reflect the normalized
// text. fellBack reports that no configured word matched and the first
// language was assigned by default.
//
// Every message gets exactly one label: the cascade is media/link check,
// lone-emoji check, then a token scan where the last matching token
// wins. Later matches deliberately overwrite earlier ones.
func (c *Classifier) Classify(text string, hasEmoji bool) (label string, fellBack bool) {
	lower := strings.ToLower(text)

	for _, m := range c.markers {
		if strings.Contains(lower, m) {
			return c.nonVerbal, false
		}
	}

	tokens := tokenize(lower)
	if len(tokens) == 1 && hasEmoji {
		return c.nonVerbal, false
	}

	for _, tok := range tokens {
		for _, set := range c.langs {
			if set.contains(tok) {
				label = set.label
				break
			}
		}
	}
	if label == "" {
		return c.fallback, true
	}
	return label, false
}

// NonVerbalLabel reports the label used for non-verbal traffic.
func (c *Classifier) NonVerbalLabel() string { return c.nonVerbal }

func tokenize(lower string) []string {
	fields := strings.Fields(lower)
	out := fields[:0]
	for _, f := range fields {
		f = strings.TrimFunc(f, func(r rune) bool {
			return unicode.IsPunct(r)
		})
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}
