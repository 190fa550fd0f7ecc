package logging_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/gocrud/easytest/logging"
)

func TestConsoleLoggerText(t *testing.T) {
	var buf bytes.Buffer
	provider := logging.NewConsoleLoggerProvider(logging.ConsoleLoggerOptions{Output: &buf})
	logger := provider.CreateLogger("Test")

	logger.Info("hello", logging.Field{Key: "answer", Value: 42})

	out := buf.String()
	if !strings.Contains(out, "INFO") {
		t.Errorf("Expected level in output, got %q", out)
	}
	if !strings.Contains(out, "[Test]") {
		t.Errorf("Expected category in output, got %q", out)
	}
	if !strings.Contains(out, "answer=42") {
		t.Errorf("Expected field in output, got %q", out)
	}
}

func TestConsoleLoggerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	provider := logging.NewConsoleLoggerProvider(logging.ConsoleLoggerOptions{Output: &buf})
	provider.SetMinimumLevel(logging.LogLevelWarn)
	logger := provider.CreateLogger("Test")

	logger.Info("filtered")
	logger.Warn("kept")

	out := buf.String()
	if strings.Contains(out, "filtered") {
		t.Errorf("Info should be filtered, got %q", out)
	}
	if !strings.Contains(out, "kept") {
		t.Errorf("Warn should pass, got %q", out)
	}
}

func TestConsoleLoggerJson(t *testing.T) {
	var buf bytes.Buffer
	provider := logging.NewConsoleLoggerProvider(logging.ConsoleLoggerOptions{
		Output:     &buf,
		JsonOutput: true,
	})
	logger := provider.CreateLogger("Json")

	logger.Error("boom", logging.Field{Key: "code", Value: 7})

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("Output is not valid JSON: %v (%q)", err, buf.String())
	}
	if entry["level"] != "ERROR" || entry["msg"] != "boom" {
		t.Errorf("Unexpected entry: %v", entry)
	}
}

func TestFactoryComposite(t *testing.T) {
	var a, b bytes.Buffer
	factory := logging.NewLoggerFactory()
	factory.AddProvider(logging.NewConsoleLoggerProvider(logging.ConsoleLoggerOptions{Output: &a}))
	factory.AddProvider(logging.NewConsoleLoggerProvider(logging.ConsoleLoggerOptions{Output: &b}))

	logger := factory.CreateLogger("Comp")
	logger.Info("fanout")

	if !strings.Contains(a.String(), "fanout") || !strings.Contains(b.String(), "fanout") {
		t.Error("Expected message in both providers")
	}
}

func TestRecorderProvider(t *testing.T) {
	recorder := logging.NewRecorderProvider(t.Logf)
	logger := recorder.CreateLogger("Recorded")

	logger.Info("first", logging.Field{Key: "k", Value: "v"})
	logger.WithFields(logging.Field{Key: "extra", Value: 1}).Warn("second")

	entries := recorder.Entries()
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if entries[0].Message != "first" || entries[0].Level != logging.LogLevelInfo {
		t.Errorf("Unexpected first entry: %+v", entries[0])
	}
	if len(entries[1].Fields) != 1 || entries[1].Fields[0].Key != "extra" {
		t.Errorf("WithFields should carry fields: %+v", entries[1])
	}
	if !recorder.Contains("second") {
		t.Error("Contains should find 'second'")
	}
}
