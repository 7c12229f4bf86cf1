package conversation

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Export formats supported by Export.
const (
	FormatJSON = "json"
	FormatText = "text"
	FormatCSV  = "csv"
)

type jsonExport struct {
	Messages   []Message         `json:"messages"`
	Stats      ConversationStats `json:"stats"`
	ExportedAt time.Time         `json:"exported_at"`
}

// Export renders a message slice in one of the supported formats. Unknown
// formats produce an *UnsupportedFormatError.
func Export(messages []Message, format string) (string, error) {
	switch strings.ToLower(format) {
	case FormatJSON:
		return exportJSON(messages)
	case FormatText:
		return exportText(messages), nil
	case FormatCSV:
		return exportCSV(messages), nil
	default:
		return "", &UnsupportedFormatError{Format: format}
	}
}

func exportJSON(messages []Message) (string, error) {
	if messages == nil {
		messages = []Message{}
	}
	data, err := json.MarshalIndent(jsonExport{
		Messages:   messages,
		Stats:      Stats(messages),
		ExportedAt: time.Now(),
	}, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// exportText renders one line per message: [time] SpeakerName: content
func exportText(messages []Message) string {
	lines := make([]string, len(messages))
	for i, msg := range messages {
		lines[i] = fmt.Sprintf("[%s] %s: %s",
			msg.Timestamp.Format("15:04:05"), msg.Speaker.DisplayName(), msg.Content)
	}
	return strings.Join(lines, "\n")
}

// exportCSV quotes every field and doubles embedded quote characters.
func exportCSV(messages []Message) string {
	var b strings.Builder
	b.WriteString("Timestamp,Sender,Content\n")

	rows := make([]string, len(messages))
	for i, msg := range messages {
		rows[i] = strings.Join([]string{
			csvField(msg.Timestamp.Format(time.RFC3339)),
			csvField(msg.Speaker.DisplayName()),
			csvField(msg.Content),
		}, ",")
	}
	b.WriteString(strings.Join(rows, "\n"))
	return b.String()
}

func csvField(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
