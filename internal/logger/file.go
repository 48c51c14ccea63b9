package logger

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

// lockedFile opens the log file for every write and holds an exclusive
// advisory lock for the duration of that write, so several processes can
// append to the same file without interleaving lines.
type lockedFile struct {
	path string
}

func (f *lockedFile) Write(p []byte) (int, error) {
	file, err := os.OpenFile(f.path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0644)
	if err != nil {
		return 0, fmt.Errorf("failed to open log file: %w", err)
	}
	defer file.Close()

	if err := lockFile(file); err != nil {
		return 0, fmt.Errorf("failed to lock log file: %w", err)
	}
	defer unlockFile(file)

	return file.Write(p)
}

// NewFileLogger returns a logger appending to the file at path
func NewFileLogger(path string) Logger {
	base := logrus.New()
	base.SetOutput(&lockedFile{path: path})
	return New(base)
}
