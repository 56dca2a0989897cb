// Package jsonfile writes dashboard snapshots as JSON documents.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/couchcryptid/seismic-catalog-etl/internal/dashboard"
)

// Writer writes snapshots either to one file per selection or to a stream.
// It implements pipeline.SnapshotLoader.
type Writer struct {
	base   string
	out    io.Writer
	logger *slog.Logger
}

// NewFileWriter writes each snapshot next to base, named
// "<base>-<year>-<column>.json".
func NewFileWriter(base string, logger *slog.Logger) *Writer {
	return &Writer{base: base, logger: logger}
}

// NewStreamWriter writes every snapshot to out as one indented JSON document
// per snapshot.
func NewStreamWriter(out io.Writer, logger *slog.Logger) *Writer {
	return &Writer{out: out, logger: logger}
}

// LoadSnapshot writes snap.
func (w *Writer) LoadSnapshot(ctx context.Context, snap dashboard.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("serialize snapshot: %w", err)
	}
	data = append(data, '\n')

	if w.out != nil {
		if _, err := w.out.Write(data); err != nil {
			return fmt.Errorf("write snapshot: %w", err)
		}
		return nil
	}

	path := SnapshotPath(w.base, snap.Year, snap.Column)
	if err := writeFileAtomic(path, data); err != nil {
		return err
	}
	w.logger.Debug("snapshot written", "path", path, "bytes", len(data))
	return nil
}

// SnapshotPath derives the per-selection file name from base.
func SnapshotPath(base, year, column string) string {
	ext := filepath.Ext(base)
	if ext == "" {
		ext = ".json"
	}
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return fmt.Sprintf("%s-%s-%s%s", stem, year, column, ext)
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".snapshot-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
