package scanner

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
)

// Magic bytes for dump detection
var (
	gzipMagic = []byte{0x1F, 0x8B}

	xzMagic = []byte{0xFD, 0x37, 0x7A, 0x58, 0x5A, 0x00}

	zstdMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}
)

// dumpExtensions are the file name suffixes recognized as dumps
var dumpExtensions = []string{".jsonl", ".json", ".jsonl.gz", ".json.gz", ".jsonl.xz", ".json.xz", ".jsonl.zst", ".json.zst"}

// DetectDumpType determines the dump type based on magic bytes and file extension
func DetectDumpType(path string) (DumpType, error) {
	f, err := os.Open(path)
	if err != nil {
		return TypeUnknown, err
	}
	defer f.Close()

	// Read enough for the longest magic
	header := make([]byte, 16)
	n, err := f.Read(header)
	if err != nil && n == 0 {
		// empty files are valid plain dumps
		if info, statErr := f.Stat(); statErr == nil && info.Size() == 0 && HasDumpExtension(path) {
			return TypePlain, nil
		}
		return TypeUnknown, err
	}
	header = header[:n]

	if bytes.HasPrefix(header, gzipMagic) {
		return TypeGzip, nil
	}

	if bytes.HasPrefix(header, xzMagic) {
		return TypeXz, nil
	}

	if bytes.HasPrefix(header, zstdMagic) {
		return TypeZstd, nil
	}

	ext := filepath.Ext(path)
	if ext == ".gz" || ext == ".xz" || ext == ".zst" {
		// compressed extension without matching magic
		return TypeUnknown, nil
	}

	trimmed := bytes.TrimLeft(header, " \t\r\n")
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return TypePlain, nil
	}

	return TypeUnknown, nil
}

// HasDumpExtension reports whether path carries a recognized dump suffix
func HasDumpExtension(path string) bool {
	for _, ext := range dumpExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// FindDump returns the first existing dump for base, trying base itself and
// base with each recognized suffix
func FindDump(base string) (ScannedDump, error) {
	candidates := []string{base}
	for _, ext := range dumpExtensions {
		candidates = append(candidates, base+ext)
	}

	for _, path := range candidates {
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		dumpType, err := DetectDumpType(path)
		if err != nil {
			return ScannedDump{}, err
		}
		if dumpType == TypeUnknown {
			continue
		}
		return ScannedDump{Path: path, Type: dumpType, Size: info.Size()}, nil
	}

	return ScannedDump{}, os.ErrNotExist
}
