package conversation

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestExportJSON(t *testing.T) {
	base := time.Date(2025, time.March, 10, 14, 30, 5, 0, time.UTC)
	messages := []Message{
		messageAt(SpeakerUser, "Hello avatar", base),
		messageAt(SpeakerAvatar, "Hello user", base.Add(10*time.Second)),
	}

	out, err := Export(messages, "json")
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	var decoded struct {
		Messages   []Message         `json:"messages"`
		Stats      ConversationStats `json:"stats"`
		ExportedAt time.Time         `json:"exported_at"`
	}
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("Exported JSON does not parse: %v", err)
	}

	if len(decoded.Messages) != len(messages) {
		t.Fatalf("Round trip lost messages: %d != %d", len(decoded.Messages), len(messages))
	}
	for i, msg := range decoded.Messages {
		if msg.ID != messages[i].ID || msg.Speaker != messages[i].Speaker || msg.Content != messages[i].Content {
			t.Errorf("Message %d does not round trip: %+v", i, msg)
		}
		if !msg.Timestamp.Equal(messages[i].Timestamp) {
			t.Errorf("Message %d timestamp does not round trip", i)
		}
	}
	if decoded.Stats.TotalMessages != 2 {
		t.Errorf("Expected stats in export, got %+v", decoded.Stats)
	}
	if decoded.ExportedAt.IsZero() {
		t.Error("Expected exported_at to be set")
	}
}

func TestExportText(t *testing.T) {
	base := time.Date(2025, time.March, 10, 14, 30, 5, 0, time.UTC)
	messages := []Message{
		messageAt(SpeakerUser, "Hi", base),
		messageAt(SpeakerAvatar, "Hello", base.Add(10*time.Second)),
	}

	out, err := Export(messages, "text")
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %d", len(lines))
	}
	if lines[0] != "[14:30:05] You: Hi" {
		t.Errorf("Unexpected text line: %q", lines[0])
	}
	if lines[1] != "[14:30:15] Avatar: Hello" {
		t.Errorf("Unexpected text line: %q", lines[1])
	}
}

func TestExportCSV(t *testing.T) {
	base := time.Date(2025, time.March, 10, 14, 30, 5, 0, time.UTC)
	messages := []Message{
		messageAt(SpeakerUser, `say "hello" please`, base),
	}

	out, err := Export(messages, "csv")
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	lines := strings.Split(out, "\n")
	if lines[0] != "Timestamp,Sender,Content" {
		t.Errorf("Unexpected CSV header: %q", lines[0])
	}
	want := `"2025-03-10T14:30:05Z","You","say ""hello"" please"`
	if lines[1] != want {
		t.Errorf("CSV row mismatch:\n got %q\nwant %q", lines[1], want)
	}
}

func TestExportUnsupportedFormat(t *testing.T) {
	_, err := Export(nil, "xml")
	var formatErr *UnsupportedFormatError
	if !errors.As(err, &formatErr) {
		t.Fatalf("Expected UnsupportedFormatError, got %v", err)
	}
	if formatErr.Format != "xml" {
		t.Errorf("Expected format %q in error, got %q", "xml", formatErr.Format)
	}
}

func TestExportFormatCaseInsensitive(t *testing.T) {
	if _, err := Export(nil, "JSON"); err != nil {
		t.Errorf("Expected upper-case format name to work, got %v", err)
	}
}
