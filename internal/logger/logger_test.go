package logger

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var lineRe = regexp.MustCompile(`^[A-Z][a-z]{2} \d{2} \d{2}:\d{2}:\d{2} (.*)$`)

func newBufferLogger() (Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	base := logrus.New()
	base.SetOutput(&buf)
	return New(base), &buf
}

func lines(buf *bytes.Buffer) []string {
	return strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
}

func TestLogFormat(t *testing.T) {
	l, buf := newBufferLogger()

	l.Log("started")

	got := lines(buf)
	require.Len(t, got, 1)
	m := lineRe.FindStringSubmatch(got[0])
	require.NotNil(t, m, "unexpected line %q", got[0])
	assert.Equal(t, "started", m[1])
}

func TestPrefixedAndIndented(t *testing.T) {
	l, buf := newBufferLogger()

	repo := l.GetPrefixed("freebsd: ")
	repo.Log("started")
	Indented(repo).Log("parsing")
	repo.GetIndented(2).Log("deep")
	l.Log("done")

	var messages []string
	for _, line := range lines(buf) {
		m := lineRe.FindStringSubmatch(line)
		require.NotNil(t, m, "unexpected line %q", line)
		messages = append(messages, m[1])
	}

	assert.Equal(t, []string{
		"freebsd: started",
		"freebsd:   parsing",
		"freebsd:     deep",
		"done",
	}, messages)
}

func TestDerivationDoesNotMutateParent(t *testing.T) {
	l, buf := newBufferLogger()
	parent := l.GetPrefixed("a: ")

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			parent.GetPrefixed(fmt.Sprintf("%d: ", i)).Log("child")
		}(i)
	}
	wg.Wait()

	parent.Log("parent")

	got := lines(buf)
	require.Len(t, got, 11)
	m := lineRe.FindStringSubmatch(got[10])
	require.NotNil(t, m)
	assert.Equal(t, "a: parent", m[1])
}

func TestNoopLogger(t *testing.T) {
	l := NewNoopLogger()
	l.Log("nothing")
	assert.NotNil(t, l.GetPrefixed("x"))
	assert.NotNil(t, Indented(l))
}

func TestFileLoggerConcurrentWriters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "update.log")

	// independent loggers on one file behave like separate processes
	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			l := NewFileLogger(path).GetPrefixed(fmt.Sprintf("writer%d: ", w))
			for i := 0; i < 50; i++ {
				l.Log(fmt.Sprintf("message %d", i))
			}
		}(w)
	}
	wg.Wait()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	got := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	require.Len(t, got, 200)
	for _, line := range got {
		m := lineRe.FindStringSubmatch(line)
		require.NotNil(t, m, "malformed line %q", line)
		assert.Regexp(t, `^writer\d: message \d+$`, m[1])
	}
}

func TestFileLoggerAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "update.log")
	require.NoError(t, os.WriteFile(path, []byte("existing\n"), 0644))

	NewFileLogger(path).Log("appended")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "existing\n"))
	assert.Contains(t, string(data), " appended\n")
}
