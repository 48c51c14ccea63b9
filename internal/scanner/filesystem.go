package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/sirupsen/logrus"
)

// FileSystemScanner finds dumps below a directory on the local filesystem
type FileSystemScanner struct{}

// NewFileSystemScanner creates a new filesystem scanner
func NewFileSystemScanner() *FileSystemScanner {
	return &FileSystemScanner{}
}

// Scan walks dir and returns every file with a dump suffix and recognizable
// content, ordered by path. Files whose content does not match a known
// encoding are logged and skipped.
func (s *FileSystemScanner) Scan(ctx context.Context, dir string) ([]ScannedDump, error) {
	var dumps []ScannedDump

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !HasDumpExtension(path) {
			return nil
		}

		dumpType, err := s.DetectType(path)
		if err != nil {
			logrus.Warnf("Failed to detect type for %s: %v", path, err)
			return nil
		}
		if dumpType == TypeUnknown {
			logrus.Warnf("Skipping %s: unrecognized content", path)
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		logrus.Debugf("Found %s dump: %s", dumpType, path)
		dumps = append(dumps, ScannedDump{Path: path, Type: dumpType, Size: info.Size()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
	}

	sort.Slice(dumps, func(i, j int) bool { return dumps[i].Path < dumps[j].Path })

	logrus.Debugf("Found %d dumps in %s", len(dumps), dir)
	return dumps, nil
}

// DetectType determines the dump type of a file
func (s *FileSystemScanner) DetectType(path string) (DumpType, error) {
	return DetectDumpType(path)
}

// ExpandPaths replaces every directory in paths by the dumps s finds in it.
// Other paths are kept in place, so missing files surface when opened.
func ExpandPaths(ctx context.Context, s Scanner, paths []string) ([]string, error) {
	var expanded []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil || !info.IsDir() {
			expanded = append(expanded, path)
			continue
		}

		dumps, err := s.Scan(ctx, path)
		if err != nil {
			return nil, err
		}
		if len(dumps) == 0 {
			return nil, fmt.Errorf("no dumps found in %s", path)
		}
		for _, d := range dumps {
			expanded = append(expanded, d.Path)
		}
	}
	return expanded, nil
}
