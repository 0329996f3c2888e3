package clean

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/chatlens/chatlens/pkg/chatlens/internalerr"
)

// Pattern is one configured normalization rule: a regular expression and
// its replacement, usually the empty string.
type Pattern struct {
	Name    string
	Expr    string
	Replace string
}

type rule struct {
	name string
	re   *regexp.Regexp
	repl string
}

// Normalizer applies an ordered list of regex substitutions to message
// text and trims the result. Order matters: earlier rules see the raw
// text, later rules see the residue of earlier ones.
type Normalizer struct {
	rules []rule
}

// NewNormalizer compiles the pattern list. A pattern that does not
// compile makes the whole constructor fail; a half-configured normalizer
// silently passing noise through is worse than refusing to start.
func NewNormalizer(patterns []Pattern) (*Normalizer, error) {
	rules := make([]rule, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p.Expr)
		if err != nil {
			return nil, fmt.Errorf("%w: pattern %q: %v", internalerr.ErrInvalidConfig, p.Name, err)
		}
		rules = append(rules, rule{name: p.Name, re: re, repl: p.Replace})
	}
	return &Normalizer{rules: rules}, nil
}

// Apply runs every rule in configured order and trims surrounding
// whitespace. The result may be empty; callers decide whether empty rows
// are dropped.
func (n *Normalizer) Apply(text string) string {
	for _, r := range n.rules {
		text = r.re.ReplaceAllString(text, r.repl)
	}
	return strings.TrimSpace(text)
}

// Rules reports the configured rule names in order.
func (n *Normalizer) Rules() []string {
	out := make([]string, len(n.rules))
	for i, r := range n.rules {
		out[i] = r.name
	}
	return out
}
