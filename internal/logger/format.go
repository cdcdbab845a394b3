package logger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// TimeFormat matches the timestamp layout of the existing log files.
const TimeFormat = "2006-01-02 15:04:05,000"

// lineWriter turns zerolog's JSON events into
// "<timestamp>:<LEVEL>:<message> key=value ..." lines.
type lineWriter struct {
	mu  sync.Mutex
	out io.Writer
	now func() time.Time
}

func newLineWriter(out io.Writer) *lineWriter {
	return &lineWriter{out: out, now: time.Now}
}

func (w *lineWriter) Write(p []byte) (int, error) {
	line, err := w.format(p)
	if err != nil {
		return 0, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := io.WriteString(w.out, line); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (w *lineWriter) format(p []byte) (string, error) {
	dec := json.NewDecoder(bytes.NewReader(p))
	dec.UseNumber()

	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return "", fmt.Errorf("malformed log event: %s", strings.TrimSpace(string(p)))
	}

	var level, message string
	var fields []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return "", fmt.Errorf("malformed log event: %v", err)
		}
		key, _ := tok.(string)

		var value any
		if err := dec.Decode(&value); err != nil {
			return "", fmt.Errorf("malformed log event: %v", err)
		}

		switch key {
		case zerolog.LevelFieldName:
			level = strings.ToUpper(fmt.Sprint(value))
		case zerolog.MessageFieldName:
			message = fmt.Sprint(value)
		default:
			fields = append(fields, key+"="+formatValue(value))
		}
	}

	var b strings.Builder
	b.WriteString(w.now().Format(TimeFormat))
	b.WriteByte(':')
	b.WriteString(level)
	b.WriteByte(':')
	b.WriteString(message)
	for _, f := range fields {
		b.WriteByte(' ')
		b.WriteString(f)
	}
	b.WriteByte('\n')
	return b.String(), nil
}

func formatValue(v any) string {
	switch val := v.(type) {
	case string:
		if val == "" || strings.ContainsAny(val, " \t\"=") {
			return strconv.Quote(val)
		}
		return val
	case nil:
		return "null"
	default:
		return fmt.Sprint(val)
	}
}
