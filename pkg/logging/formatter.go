package logging

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// ANSI colors per level. Levels without an entry are written plain.
var levelColors = map[Level]string{
	DebugLevel: "\033[90m",
	InfoLevel:  "\033[34m",
	WarnLevel:  "\033[33m",
	ErrorLevel: "\033[31m",
}

const colorReset = "\033[0m"

// TextFormatter renders entries as one human-readable line:
//
//	2024-05-01 10:00:00.000 [ERROR] [doc-1] Tool/decode: Decode failed | field=parameters
type TextFormatter struct {
	// TimestampFormat is the format for timestamps
	TimestampFormat string
	// DisableColors disables terminal colors
	DisableColors bool
	// DisableTimestamp disables timestamp output
	DisableTimestamp bool
	// DisableSorting keeps fields in map order
	DisableSorting bool
}

// NewTextFormatter creates a new text formatter
func NewTextFormatter() *TextFormatter {
	return &TextFormatter{
		TimestampFormat: "2006-01-02 15:04:05.000",
	}
}

// Format formats a log entry as text
func (f *TextFormatter) Format(entry *Entry) ([]byte, error) {
	var b strings.Builder

	if !f.DisableTimestamp {
		b.WriteString(entry.Timestamp.Format(f.TimestampFormat))
		b.WriteByte(' ')
	}

	level := "[" + entry.Level.String() + "]"
	if color, ok := levelColors[entry.Level]; ok && !f.DisableColors {
		level = color + level + colorReset
	}
	b.WriteString(level)
	b.WriteByte(' ')

	if entry.DocumentID != "" {
		b.WriteString("[" + entry.DocumentID + "] ")
	}

	header := entry.Entity
	if header != "" && entry.Operation != "" {
		header += "/" + entry.Operation
	}
	if header != "" {
		b.WriteString(header + ": ")
	}

	b.WriteString(entry.Message)

	if pairs := f.pairs(entry); len(pairs) > 0 {
		b.WriteString(" | ")
		b.WriteString(strings.Join(pairs, " "))
	}

	b.WriteByte('\n')
	return []byte(b.String()), nil
}

// pairs renders the fields not already shown in the header as key=value.
func (f *TextFormatter) pairs(entry *Entry) []string {
	inHeader := func(key string) bool {
		switch key {
		case DocumentIDKey:
			return true
		case EntityKey:
			return entry.Entity != ""
		case OperationKey:
			return entry.Entity != "" && entry.Operation != ""
		}
		return false
	}

	pairs := make([]string, 0, len(entry.Fields))
	for key, value := range entry.Fields {
		if inHeader(key) {
			continue
		}
		pairs = append(pairs, key+"="+textValue(value))
	}
	if !f.DisableSorting {
		sort.Strings(pairs)
	}
	return pairs
}

func textValue(v interface{}) string {
	switch val := v.(type) {
	case error:
		return val.Error()
	case string:
		if strings.ContainsAny(val, " =\"") {
			return fmt.Sprintf("%q", val)
		}
		return val
	default:
		return fmt.Sprint(v)
	}
}

// JSONFormatter renders entries as one JSON object per line. Fields share
// the top level with "level", "message" and "timestamp".
type JSONFormatter struct {
	// PrettyPrint enables indented output
	PrettyPrint bool
	// TimestampFormat is the format for timestamps
	TimestampFormat string
	// DisableTimestamp disables timestamp output
	DisableTimestamp bool
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{
		TimestampFormat: time.RFC3339Nano,
	}
}

// Format formats a log entry as JSON
func (f *JSONFormatter) Format(entry *Entry) ([]byte, error) {
	obj := make(map[string]interface{}, len(entry.Fields)+3)
	for key, value := range entry.Fields {
		obj[key] = jsonValue(value)
	}
	obj["level"] = entry.Level.String()
	obj["message"] = entry.Message
	if !f.DisableTimestamp {
		obj["timestamp"] = entry.Timestamp.Format(f.TimestampFormat)
	}

	marshal := json.Marshal
	if f.PrettyPrint {
		marshal = func(v interface{}) ([]byte, error) { return json.MarshalIndent(v, "", "  ") }
	}
	out, err := marshal(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal log entry: %w", err)
	}
	return append(out, '\n'), nil
}

func jsonValue(v interface{}) interface{} {
	switch val := v.(type) {
	case error:
		return val.Error()
	case time.Duration:
		return val.String()
	default:
		return v
	}
}
