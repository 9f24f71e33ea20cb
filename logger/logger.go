// Package logger provides a custom TextFormatter for use with the github.com/sirupsen/logrus library.
// Please refer to https://github.com/sirupsen/logrus#formatters for general usage guidelines on logrus formatters.
package logger

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const defaultTimestampFormat = time.RFC3339

// DefaultPriorityKeys are printed before any other field, in this order.
// they identify where a log line comes from within a batch.
var DefaultPriorityKeys = []string{"file", "record", "device"}

// TextFormatter maintains a list of options to apply while formatting your log output.
// For more information about the Timestamp format refer to https://golang.org/pkg/time/.
type TextFormatter struct {
	// Disable timestamp logging. useful when output is redirected to logging
	// system that already adds timestamps
	DisableTimestamp bool

	// Disable the conversion of the log levels to uppercase
	DisableUppercase bool

	// Timestamp format to use for display when a full timestamp is printed
	TimestampFormat string

	// Wrap empty fields in quotes if true
	QuoteEmptyFields bool

	// Can be set to the override the default quoting character "
	// with something else. For example: ', or `.
	QuoteCharacter string

	// The name of the tool (sensorstat, etc...),
	// prints before the log message, doesn't print if empty
	ModuleName string

	// Keys to print first. nil means DefaultPriorityKeys.
	// the remaining keys are always sorted
	PriorityKeys []string

	sync.Once
}

func (f *TextFormatter) init(entry *logrus.Entry) {
	if len(f.QuoteCharacter) == 0 {
		f.QuoteCharacter = "\""
	}
	if f.PriorityKeys == nil {
		f.PriorityKeys = DefaultPriorityKeys
	}
}

// orderKeys returns the keys of data: priority keys first, then the rest sorted.
func (f *TextFormatter) orderKeys(data logrus.Fields) []string {
	keys := make([]string, 0, len(data))
	seen := make(map[string]struct{}, len(f.PriorityKeys))
	for _, k := range f.PriorityKeys {
		if _, ok := data[k]; ok {
			keys = append(keys, k)
			seen[k] = struct{}{}
		}
	}
	rest := make([]string, 0, len(data)-len(keys))
	for k := range data {
		if _, ok := seen[k]; !ok {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

// Format renders a single log entry.
// It is meant to be called from github.com/sirupsen/logrus.
func (f *TextFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	f.Do(func() { f.init(entry) })

	var b *bytes.Buffer
	if entry.Buffer != nil {
		b = entry.Buffer
	} else {
		b = &bytes.Buffer{}
	}

	keys := f.orderKeys(entry.Data)

	if !f.DisableTimestamp {
		timestampFormat := f.TimestampFormat
		if timestampFormat == "" {
			timestampFormat = defaultTimestampFormat
		}
		b.WriteString(entry.Time.Format(timestampFormat))
		b.WriteByte(' ')
	}

	b.WriteByte('[')
	if !f.DisableUppercase {
		b.WriteString(strings.ToUpper(entry.Level.String()))
	} else {
		b.WriteString(entry.Level.String())
	}
	b.WriteString("] ")

	if f.ModuleName != "" {
		b.WriteByte('[')
		b.WriteString(f.ModuleName)
		b.WriteString("] ")
	}

	b.WriteString(entry.Message)
	for _, key := range keys {
		b.WriteByte(' ')
		b.WriteString(key)
		b.WriteByte('=')
		f.appendValue(b, entry.Data[key])
	}

	b.WriteByte('\n')
	return b.Bytes(), nil
}

func (f *TextFormatter) needsQuoting(text string) bool {
	if len(text) == 0 {
		return f.QuoteEmptyFields
	}
	for _, ch := range text {
		if !((ch >= 'a' && ch <= 'z') ||
			(ch >= 'A' && ch <= 'Z') ||
			(ch >= '0' && ch <= '9') ||
			ch == '-' || ch == '.' || ch == '_' || ch == '/' || ch == '@') {
			return true
		}
	}
	return false
}

func (f *TextFormatter) appendValue(b *bytes.Buffer, value interface{}) {
	var text string
	switch value := value.(type) {
	case string:
		text = value
	case error:
		text = value.Error()
	default:
		fmt.Fprint(b, value)
		return
	}
	if !f.needsQuoting(text) {
		b.WriteString(text)
		return
	}
	fmt.Fprintf(b, "%s%v%s", f.QuoteCharacter, text, f.QuoteCharacter)
}
