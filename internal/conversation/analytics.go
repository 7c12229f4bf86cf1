package conversation

import (
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"
)

// ConversationStats aggregates message counts, word counts and the span of the
// conversation.
type ConversationStats struct {
	TotalMessages    int        `json:"total_messages"`
	UserMessages     int        `json:"user_messages"`
	AvatarMessages   int        `json:"avatar_messages"`
	TotalWords       int        `json:"total_words"`
	AvgWordsPerMsg   int        `json:"average_words_per_message"`
	DurationSeconds  int        `json:"duration_seconds"`
	FirstMessageTime *time.Time `json:"first_message_time,omitempty"`
	LastMessageTime  *time.Time `json:"last_message_time,omitempty"`
}

// Stats computes conversation statistics over a message slice. Duration is zero
// unless at least two messages carry timestamps.
func Stats(messages []Message) ConversationStats {
	stats := ConversationStats{TotalMessages: len(messages)}

	stats.UserMessages = lo.CountBy(messages, func(m Message) bool { return m.Speaker == SpeakerUser })
	stats.AvatarMessages = lo.CountBy(messages, func(m Message) bool { return m.Speaker == SpeakerAvatar })

	for _, msg := range messages {
		if msg.Content != "" {
			stats.TotalWords += len(strings.Fields(msg.Content))
		}
	}
	if len(messages) > 0 {
		stats.AvgWordsPerMsg = (stats.TotalWords + len(messages)/2) / len(messages)
	}

	timestamps := lo.FilterMap(messages, func(m Message, _ int) (time.Time, bool) {
		return m.Timestamp, !m.Timestamp.IsZero()
	})
	sort.Slice(timestamps, func(i, j int) bool { return timestamps[i].Before(timestamps[j]) })

	if len(timestamps) > 0 {
		first, last := timestamps[0], timestamps[len(timestamps)-1]
		stats.FirstMessageTime = &first
		stats.LastMessageTime = &last
		if len(timestamps) > 1 {
			stats.DurationSeconds = int(last.Sub(first).Round(time.Second).Seconds())
		}
	}

	return stats
}

// SearchOptions narrows a Search beyond the content query.
type SearchOptions struct {
	CaseSensitive bool
	ExactMatch    bool
	Speaker       Speaker
	After         *time.Time
	Before        *time.Time
}

// Search filters messages by content query, optional speaker and an inclusive
// timestamp range. Original order is preserved; an empty query matches nothing.
func Search(messages []Message, query string, opts SearchOptions) []Message {
	if query == "" {
		return nil
	}

	term := query
	if !opts.CaseSensitive {
		term = strings.ToLower(term)
	}

	return lo.Filter(messages, func(msg Message, _ int) bool {
		content := msg.Content
		if !opts.CaseSensitive {
			content = strings.ToLower(content)
		}

		if opts.ExactMatch {
			if content != term {
				return false
			}
		} else if !strings.Contains(content, term) {
			return false
		}

		if opts.Speaker != "" && msg.Speaker != opts.Speaker {
			return false
		}
		if opts.After != nil && msg.Timestamp.Before(*opts.After) {
			return false
		}
		if opts.Before != nil && msg.Timestamp.After(*opts.Before) {
			return false
		}
		return true
	})
}

// GroupByDate buckets messages by calendar date, keeping original relative
// order within each bucket.
func GroupByDate(messages []Message) map[string][]Message {
	return lo.GroupBy(messages, func(msg Message) string {
		return msg.Timestamp.Format("Jan 2, 2006")
	})
}

var commonWords = map[string]struct{}{
	"the": {}, "and": {}, "but": {}, "for": {}, "with": {},
	"was": {}, "were": {}, "been": {}, "have": {}, "has": {}, "had": {},
	"does": {}, "did": {}, "will": {}, "would": {}, "could": {}, "should": {},
	"you": {}, "she": {}, "they": {}, "him": {}, "her": {}, "them": {},
	"are": {}, "this": {}, "that": {}, "not": {},
}

// Keywords extracts up to max frequency-ranked terms from the given text,
// skipping short and common words. Ties break alphabetically so the result is
// stable.
func Keywords(text string, max int) []string {
	if text == "" || max <= 0 {
		return nil
	}

	counts := map[string]int{}
	for _, field := range strings.Fields(strings.ToLower(text)) {
		word := strings.TrimFunc(field, func(r rune) bool {
			return !('a' <= r && r <= 'z' || '0' <= r && r <= '9')
		})
		if len(word) <= 2 {
			continue
		}
		if _, common := commonWords[word]; common {
			continue
		}
		counts[word]++
	}

	words := lo.Keys(counts)
	sort.Slice(words, func(i, j int) bool {
		if counts[words[i]] != counts[words[j]] {
			return counts[words[i]] > counts[words[j]]
		}
		return words[i] < words[j]
	})

	if len(words) > max {
		words = words[:max]
	}
	return words
}
