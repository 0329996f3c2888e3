package config

import (
	"fmt"
	"strings"

	"github.com/chatlens/chatlens/pkg/chatlens/clean"
	"github.com/chatlens/chatlens/pkg/chatlens/lang"
	"github.com/chatlens/chatlens/pkg/chatlens/topics"
)

// Components holds the compiled pipeline stages built from settings.
// The topic tagger is not here: its keyword lists can only be finalized
// once the cleaned author list is known, see BuildTagger.
type Components struct {
	Normalizer *clean.Normalizer
	Classifier *lang.Classifier
	Aliases    []clean.Alias
}

// Build compiles the normalizer patterns and the classifier word sets.
// Any invalid pattern or language entry fails the whole build.
func (s *Settings) Build() (*Components, error) {
	patterns := make([]clean.Pattern, len(s.Cleaning.Patterns))
	for i, p := range s.Cleaning.Patterns {
		patterns[i] = clean.Pattern{Name: p.Name, Expr: p.Expr, Replace: p.Replace}
	}
	norm, err := clean.NewNormalizer(patterns)
	if err != nil {
		return nil, fmt.Errorf("build normalizer: %w", err)
	}

	langs := make([]lang.Language, len(s.Languages.Languages))
	for i, l := range s.Languages.Languages {
		langs[i] = lang.Language{
			Label:         l.Label,
			Code:          l.Code,
			Stopwords:     l.Stopwords,
			FrequentWords: l.FrequentWords,
		}
	}
	classifier, err := lang.NewClassifier(lang.Config{
		NonVerbalLabel: s.Languages.NonVerbalLabel,
		MediaMarkers:   s.Languages.MediaMarkers,
		Languages:      langs,
	})
	if err != nil {
		return nil, fmt.Errorf("build classifier: %w", err)
	}

	aliases := make([]clean.Alias, len(s.Cleaning.Aliases))
	for i, a := range s.Cleaning.Aliases {
		aliases[i] = clean.Alias{Canonical: a.Canonical, Alias: a.Alias}
	}

	return &Components{
		Normalizer: norm,
		Classifier: classifier,
		Aliases:    aliases,
	}, nil
}

// BuildTagger compiles the topic cascade. When a people topic is
// configured, the cleaned table's author first names extend its keyword
// list before compilation, never after.
func (s *Settings) BuildTagger(authors []string) (*topics.Tagger, error) {
	list := make([]topics.Topic, len(s.Topics.Topics))
	for i, t := range s.Topics.Topics {
		list[i] = topics.Topic{Name: t.Name, Keywords: t.Keywords}
	}

	if s.Topics.PeopleTopic != "" {
		var names []string
		for _, a := range authors {
			if first := firstName(a); first != "" {
				names = append(names, first)
			}
		}
		list = topics.Extend(list, s.Topics.PeopleTopic, names)
	}

	return topics.NewTagger(list, s.Topics.CatchAll)
}

func firstName(author string) string {
	fields := strings.Fields(strings.ToLower(author))
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
