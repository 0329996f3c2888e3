// Package embed prepares the verbal-message subset for the external
// embedding and dimensionality-reduction collaborators. It fetches
// vectors but does not implement any reduction itself.
package embed

import (
	"context"

	"github.com/chatlens/chatlens/pkg/chatlens/chat"
)

// Metadata accompanies each embedded text, aligned row-for-row.
type Metadata struct {
	Author   string
	Topic    string
	Language string
}

// Point is a 2-D coordinate returned by a projector.
type Point struct {
	X float64
	Y float64
}

// Embedder fetches one vector per input text, aligned by index.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}

// Projector reduces vectors to 2-D coordinates, aligned by index. The
// reduction itself (t-SNE or similar) is an external routine.
type Projector interface {
	Project(vectors [][]float64) ([]Point, error)
}

// Dataset selects the rows worth embedding: verbal messages whose log
// length clears the threshold. Short and non-verbal rows only add noise
// to the projection. Texts and metadata come back aligned.
func Dataset(table chat.Table, nonVerbalLabel string, minLogLength float64) ([]string, []Metadata) {
	var texts []string
	var meta []Metadata
	for _, m := range table {
		if m.Language == nonVerbalLabel {
			continue
		}
		if m.LogLength < minLogLength {
			continue
		}
		texts = append(texts, m.Text)
		meta = append(meta, Metadata{Author: m.Author, Topic: m.Topic, Language: m.Language})
	}
	return texts, meta
}
