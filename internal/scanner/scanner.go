package scanner

import "context"

// DumpType represents the encoding of a record dump file
type DumpType int

const (
	TypeUnknown DumpType = iota
	TypePlain
	TypeGzip
	TypeXz
	TypeZstd
)

// String returns the string representation of DumpType
func (dt DumpType) String() string {
	switch dt {
	case TypePlain:
		return "plain"
	case TypeGzip:
		return "gzip"
	case TypeXz:
		return "xz"
	case TypeZstd:
		return "zstd"
	default:
		return "unknown"
	}
}

// ScannedDump represents a dump file found during scanning
type ScannedDump struct {
	Path string
	Type DumpType
	Size int64
}

// Scanner interface for detecting and scanning record dumps
type Scanner interface {
	// Scan recursively scans a directory for dumps
	Scan(ctx context.Context, dir string) ([]ScannedDump, error)

	// DetectType determines the dump type of a file
	DetectType(path string) (DumpType, error)
}
