package aggregate

import "github.com/chatlens/chatlens/pkg/chatlens/topics"

// HourlyTopicShare is the hour-of-day topic distribution: for each of
// the 24 hours, each topic's percentage of that hour's traffic. Topics
// keeps the cascade order; Share[topic][hour] holds the percentage.
type HourlyTopicShare struct {
	Topics []string
	Share  map[string][24]float64
}

// HourlyByTopic normalizes per-hour topic counts into percentages. Every
// hour appears even when the chat was silent; a zero-traffic hour has 0
// for every topic, not NaN. Hours with traffic sum to 100 across topics.
func HourlyByTopic(part *topics.Partition) HourlyTopicShare {
	counts := make(map[string][24]int, len(part.Order))
	var totals [24]int

	for _, topic := range part.Order {
		var c [24]int
		for _, m := range part.Subsets[topic] {
			h := m.Timestamp.Hour()
			c[h]++
			totals[h]++
		}
		counts[topic] = c
	}

	out := HourlyTopicShare{
		Topics: append([]string(nil), part.Order...),
		Share:  make(map[string][24]float64, len(part.Order)),
	}
	for _, topic := range part.Order {
		var share [24]float64
		c := counts[topic]
		for h := 0; h < 24; h++ {
			if totals[h] > 0 {
				share[h] = float64(c[h]) / float64(totals[h]) * 100
			}
		}
		out.Share[topic] = share
	}
	return out
}
