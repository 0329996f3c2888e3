package topics

import (
	"fmt"
	"strings"

	"github.com/coregx/ahocorasick"

	"github.com/chatlens/chatlens/pkg/chatlens/chat"
	"github.com/chatlens/chatlens/pkg/chatlens/internalerr"
)

// Topic is one keyword bucket in the cascade. Order in the configured
// list is priority order: an earlier topic claims a message before a
// later one ever sees it.
type Topic struct {
	Name     string
	Keywords []string
}

// Extend returns a copy of the topic list with extra terms appended to
// the named topic. Used to add author first names to the people topic
// before compilation.
func Extend(topics []Topic, name string, terms []string) []Topic {
	out := make([]Topic, len(topics))
	for i, t := range topics {
		out[i] = Topic{Name: t.Name, Keywords: append([]string(nil), t.Keywords...)}
		if t.Name == name {
			out[i].Keywords = append(out[i].Keywords, terms...)
		}
	}
	return out
}

type compiledTopic struct {
	name string
	ac   *ahocorasick.Automaton
}

// Tagger partitions a table into ordered, mutually exclusive topic
// subsets plus a catch-all. Matching is case-insensitive substring
// search over each topic's keyword list, one Aho-Corasick automaton per
// topic.
type Tagger struct {
	topics   []compiledTopic
	catchAll string
}

// NewTagger compiles the keyword lists. Keywords are lowercased; empty
// keywords are dropped, and a topic left with no keywords is a
// configuration error.
func NewTagger(topics []Topic, catchAll string) (*Tagger, error) {
	if len(topics) == 0 {
		return nil, fmt.Errorf("%w: no topics configured", internalerr.ErrInvalidConfig)
	}
	if catchAll == "" {
		return nil, fmt.Errorf("%w: catch-all topic name is empty", internalerr.ErrInvalidConfig)
	}

	t := &Tagger{catchAll: catchAll}
	for _, topic := range topics {
		if topic.Name == "" {
			return nil, fmt.Errorf("%w: topic with empty name", internalerr.ErrInvalidConfig)
		}
		patterns := make([]string, 0, len(topic.Keywords))
		for _, kw := range topic.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw != "" {
				patterns = append(patterns, kw)
			}
		}
		if len(patterns) == 0 {
			return nil, fmt.Errorf("%w: topic %q has no keywords", internalerr.ErrInvalidConfig, topic.Name)
		}

		ac, err := ahocorasick.NewBuilder().
			AddStrings(patterns).
			SetMatchKind(ahocorasick.LeftmostLongest).
			SetPrefilter(true).
			Build()
		if err != nil {
			return nil, fmt.Errorf("%w: topic %q: %v", internalerr.ErrInvalidConfig, topic.Name, err)
		}
		t.topics = append(t.topics, compiledTopic{name: topic.Name, ac: ac})
	}
	return t, nil
}

// Partition holds the topic subsets in cascade order, catch-all last.
type Partition struct {
	Order   []string
	Subsets map[string]chat.Table
}

// Total is the number of rows across all subsets.
func (p *Partition) Total() int {
	n := 0
	for _, sub := range p.Subsets {
		n += len(sub)
	}
	return n
}

// Tag assigns every row to exactly one topic. It returns the table in
// original row order with the Topic column filled, plus the partition.
//
// Rows are walked against each topic in order; matched rows leave the
// remaining pool so later topics cannot claim them. Whatever survives
// the cascade lands in the catch-all. If the subset sizes do not add
// back up to the input size the partition is still returned, together
// with ErrPartitionMismatch so callers can skip topic-dependent outputs
// without aborting the run.
func (t *Tagger) Tag(table chat.Table) (chat.Table, *Partition, error) {
	labeled := make(chat.Table, len(table))
	copy(labeled, table)

	part := &Partition{Subsets: make(map[string]chat.Table, len(t.topics)+1)}

	remaining := make([]int, len(labeled))
	for i := range labeled {
		remaining[i] = i
	}

	for _, topic := range t.topics {
		var matched chat.Table
		next := remaining[:0]
		for _, idx := range remaining {
			haystack := strings.ToLower(labeled[idx].Text)
			if len(topic.ac.FindAllOverlapping([]byte(haystack))) > 0 {
				labeled[idx].Topic = topic.name
				matched = append(matched, labeled[idx])
			} else {
				next = append(next, idx)
			}
		}
		remaining = next
		part.Order = append(part.Order, topic.name)
		part.Subsets[topic.name] = matched
	}

	var rest chat.Table
	for _, idx := range remaining {
		labeled[idx].Topic = t.catchAll
		rest = append(rest, labeled[idx])
	}
	part.Order = append(part.Order, t.catchAll)
	part.Subsets[t.catchAll] = rest

	if part.Total() != len(table) {
		return labeled, part, fmt.Errorf("%w: %d rows in, %d rows across subsets",
			internalerr.ErrPartitionMismatch, len(table), part.Total())
	}
	return labeled, part, nil
}

// CatchAll reports the catch-all topic name.
func (t *Tagger) CatchAll() string { return t.catchAll }
