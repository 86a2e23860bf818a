package log

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

const timestampFormat = "15:04:05.000"

// Formatter renders entries as a single human readable line:
//
//	14:03:22.120 WARN   [envs/prod] 'aws_instance.web' no longer exist in the state: envs/prod
type Formatter struct {
	colorScheme      compiledColorScheme
	disableColors    bool
	disableTimestamp bool
}

// NewFormatter returns a formatter with colors disabled.
func NewFormatter() *Formatter {
	return &Formatter{
		colorScheme:   defaultColorScheme.Compile(),
		disableColors: true,
	}
}

// WithColors enables or disables ANSI colors.
func (f *Formatter) WithColors(enabled bool) *Formatter {
	f.disableColors = !enabled
	return f
}

// WithoutTimestamp drops the leading timestamp, handy for golden output.
func (f *Formatter) WithoutTimestamp() *Formatter {
	f.disableTimestamp = true
	return f
}

// DisabledColors returns true if the formatter prints plain text.
func (f *Formatter) DisabledColors() bool {
	return f.disableColors
}

// Format implements logrus.Formatter.
func (f *Formatter) Format(entry *logrus.Entry) ([]byte, error) {
	var (
		buf    = new(bytes.Buffer)
		level  = FromLogrusLevel(entry.Level)
		fields = Fields(entry.Data)
	)

	if !f.disableTimestamp {
		buf.WriteString(f.colorize(TimestampStyle, entry.Time.Format(timestampFormat)))
		buf.WriteString(" ")
	}

	levelName := fmt.Sprintf("%-6s", level.ShortName())
	if !f.disableColors {
		levelName = f.colorScheme.LevelColorFunc(level)(levelName)
	}

	buf.WriteString(levelName)

	if prefix, ok := fields[FieldKeyPrefix]; ok {
		buf.WriteString(f.colorize(PrefixStyle, fmt.Sprintf("[%v] ", prefix)))
	}

	buf.WriteString(strings.TrimRight(entry.Message, "\n"))

	for _, key := range fields.Keys(FieldKeyPrefix) {
		buf.WriteString(" ")
		buf.WriteString(f.colorize(FieldStyle, fmt.Sprintf("%s=%v", key, fields[key])))
	}

	buf.WriteString("\n")

	return buf.Bytes(), nil
}

func (f *Formatter) colorize(name ColorStyleName, str string) string {
	if f.disableColors {
		return str
	}

	return f.colorScheme.ColorFunc(name)(str)
}

// IsTerminal returns true if the writer is a file attached to a terminal.
func IsTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
}
