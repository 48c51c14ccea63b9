package dump

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ralt/repology/internal/models"
	"github.com/ralt/repology/internal/utils"
)

// Writer writes records as JSON lines. The file appears at its final path
// only after a successful Close.
type Writer struct {
	file *utils.AtomicFile
	comp io.WriteCloser
	enc  *json.Encoder
}

// Create starts a dump at path. Compression follows the file suffix.
func Create(path string) (*Writer, error) {
	file, err := utils.CreateAtomic(path)
	if err != nil {
		return nil, &models.ProcessError{Type: models.ErrFileOp, Source: path, Err: err}
	}

	comp, err := utils.Compress(file, utils.CompressionForPath(path))
	if err != nil {
		file.Abort()
		return nil, &models.ProcessError{Type: models.ErrFileOp, Source: path, Err: err}
	}

	return &Writer{
		file: file,
		comp: comp,
		enc:  json.NewEncoder(comp),
	}, nil
}

// Write appends one record
func (w *Writer) Write(pkg *models.Package) error {
	if err := w.enc.Encode(pkg); err != nil {
		return fmt.Errorf("failed to encode %s: %w", pkg.Name, err)
	}
	return nil
}

// Close flushes the dump and moves it into place
func (w *Writer) Close() error {
	if err := w.comp.Close(); err != nil {
		w.file.Abort()
		return err
	}
	return w.file.Commit()
}

// Abort discards the dump
func (w *Writer) Abort() {
	w.comp.Close()
	w.file.Abort()
}

// WritePackages writes all records to path
func WritePackages(path string, pkgs []*models.Package) error {
	w, err := Create(path)
	if err != nil {
		return err
	}

	for _, pkg := range pkgs {
		if err := w.Write(pkg); err != nil {
			w.Abort()
			return &models.ProcessError{Type: models.ErrFileOp, Source: path, Err: err}
		}
	}

	if err := w.Close(); err != nil {
		return &models.ProcessError{Type: models.ErrFileOp, Source: path, Err: err}
	}
	return nil
}
