package lang

import (
	"errors"
	"testing"

	"github.com/chatlens/chatlens/pkg/chatlens/internalerr"
)

func newTestClassifier(t *testing.T) *Classifier {
	t.Helper()
	c, err := NewClassifier(Config{
		NonVerbalLabel: "Non-verbal",
		MediaMarkers:   []string{"<media", "http", "www."},
		Languages: []Language{
			{Label: "NL", Stopwords: []string{"ik", "jij", "niet"}, FrequentWords: []string{"hoi", "lekker"}},
			{Label: "IT", Stopwords: []string{"io", "non", "che"}, FrequentWords: []string{"ciao", "andiamo"}},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return c
}

func TestClassifyMediaAndLinks(t *testing.T) {
	c := newTestClassifier(t)
	cases := []string{
		"<Media weggelaten>",
		"kijk http://example.com",
		"zie www.example.com hier",
	}
	for _, text := range cases {
		label, fellBack := c.Classify(text, false)
		if label != "Non-verbal" || fellBack {
			t.Errorf("Classify(%q) = %q, %v; want Non-verbal, false", text, label, fellBack)
		}
	}
}

func TestClassifyLoneEmoji(t *testing.T) {
	c := newTestClassifier(t)
	label, _ := c.Classify("\U0001F600", true)
	if label != "Non-verbal" {
		t.Errorf("expected Non-verbal for lone emoji, got %q", label)
	}

	// Emoji inside real text does not make the row non-verbal.
	label, _ = c.Classify("hoi allemaal \U0001F600", true)
	if label != "NL" {
		t.Errorf("expected NL for verbal text with emoji, got %q", label)
	}
}

func TestClassifyLastMatchWins(t *testing.T) {
	c := newTestClassifier(t)

	// "hoi" matches NL, "ciao" later matches IT; the later token wins.
	label, fellBack := c.Classify("hoi zzz ciao", false)
	if label != "IT" || fellBack {
		t.Errorf("expected IT (last match), got %q fellBack=%v", label, fellBack)
	}

	label, _ = c.Classify("ciao zzz hoi", false)
	if label != "NL" {
		t.Errorf("expected NL (last match), got %q", label)
	}
}

func TestClassifyPunctuationStripped(t *testing.T) {
	c := newTestClassifier(t)
	label, fellBack := c.Classify("Hoi!", false)
	if label != "NL" || fellBack {
		t.Errorf("expected NL for punctuated match, got %q fellBack=%v", label, fellBack)
	}
}

func TestClassifyFallback(t *testing.T) {
	c := newTestClassifier(t)
	label, fellBack := c.Classify("completely unrecognized words", false)
	if label != "NL" {
		t.Errorf("expected first language as fallback, got %q", label)
	}
	if !fellBack {
		t.Error("expected fellBack=true")
	}
}

func TestClassifyTotal(t *testing.T) {
	c := newTestClassifier(t)
	inputs := []struct {
		text     string
		hasEmoji bool
	}{
		{"", false},
		{"...", false},
		{"hoi", false},
		{"\U0001F600", true},
		{"<media omitted>", false},
		{"random words only", false},
	}
	for _, in := range inputs {
		label, _ := c.Classify(in.text, in.hasEmoji)
		if label == "" {
			t.Errorf("Classify(%q) returned empty label", in.text)
		}
	}
}

func TestNewClassifierValidation(t *testing.T) {
	_, err := NewClassifier(Config{NonVerbalLabel: "Non-verbal"})
	if !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig for empty language list, got %v", err)
	}

	_, err = NewClassifier(Config{Languages: []Language{{Label: "NL"}}})
	if !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig for empty non-verbal label, got %v", err)
	}
}
