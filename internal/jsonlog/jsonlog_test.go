package jsonlog

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
)

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer

	t.Run("below minimum level is dropped", func(t *testing.T) {
		l := New(&buf, LevelError)
		l.PrintInfo("should not appear", nil)
		if buf.Len() != 0 {
			t.Errorf("expected no output; got %q", buf.String())
		}
		buf.Reset()
	})

	t.Run("info entry carries properties", func(t *testing.T) {
		l := New(&buf, LevelInfo)
		l.PrintInfo("starting server", map[string]string{"addr": ":8080"})
		var entry struct {
			Level      string            `json:"level"`
			Message    string            `json:"message"`
			Properties map[string]string `json:"properties"`
		}
		if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
			t.Fatal(err)
		}
		if entry.Level != "INFO" {
			t.Errorf("expected level INFO; got %s", entry.Level)
		}
		if entry.Message != "starting server" {
			t.Errorf("expected message %q; got %q", "starting server", entry.Message)
		}
		if entry.Properties["addr"] != ":8080" {
			t.Errorf("expected addr property %q; got %q", ":8080", entry.Properties["addr"])
		}
		buf.Reset()
	})

	t.Run("error entry includes a stack trace", func(t *testing.T) {
		l := New(&buf, LevelInfo)
		l.PrintError(errors.New("boom"), nil)
		var entry struct {
			Level string `json:"level"`
			Trace string `json:"trace"`
		}
		if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
			t.Fatal(err)
		}
		if entry.Level != "ERROR" {
			t.Errorf("expected level ERROR; got %s", entry.Level)
		}
		if entry.Trace == "" {
			t.Error("expected a stack trace on ERROR entries")
		}
		buf.Reset()
	})

	t.Run("Write logs at ERROR level", func(t *testing.T) {
		l := New(&buf, LevelInfo)
		if _, err := l.Write([]byte("raw message")); err != nil {
			t.Fatal(err)
		}
		var entry struct {
			Level   string `json:"level"`
			Message string `json:"message"`
		}
		if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
			t.Fatal(err)
		}
		if entry.Level != "ERROR" || entry.Message != "raw message" {
			t.Errorf("unexpected entry: %+v", entry)
		}
		buf.Reset()
	})
}
