package logger

import (
	"bytes"

	"github.com/sirupsen/logrus"
)

// TimeLayout is the timestamp layout of every log line, e.g. "Mar 07 14:05:09"
const TimeLayout = "Jan 02 15:04:05"

// LineFormatter renders entries as "<time> <prefix><message>\n". Fields other
// than the prefix are ignored.
type LineFormatter struct{}

// Format implements logrus.Formatter
func (f *LineFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var buf bytes.Buffer

	prefix, _ := entry.Data[prefixField].(string)

	buf.WriteString(entry.Time.Local().Format(TimeLayout))
	buf.WriteByte(' ')
	buf.WriteString(prefix)
	buf.WriteString(entry.Message)
	buf.WriteByte('\n')

	return buf.Bytes(), nil
}
