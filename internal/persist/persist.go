// Package persist writes and reads tables under a data root split into raw and prepared subdirectories.
package persist

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/movie-collector/internal/table"
)

// Subdirectory conventions under the data root.
const (
	SubdirRaw      = "raw"
	SubdirPrepared = "prepared"
)

// ErrNotFound is returned by Read when the persisted file does not exist.
var ErrNotFound = eris.New("persist: file not found")

// Format selects the on-disk encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat converts a config string into a Format. Empty means CSV.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	default:
		return "", eris.Errorf("persist: unknown format %q (valid: csv, xlsx)", s)
	}
}

// Options are caller-supplied serialization options.
type Options struct {
	Index  bool   // emit a leading row-index column
	Format Format // default csv
}

func (o Options) format() Format {
	if o.Format == "" {
		return FormatCSV
	}
	return o.Format
}

// Persister writes tables to <root>/<subdir>/<name>.<ext>.
type Persister struct {
	root string
}

// New creates a Persister rooted at dir.
func New(root string) *Persister {
	return &Persister{root: root}
}

// Root returns the data root.
func (p *Persister) Root() string { return p.root }

// Path returns the file path for a table name, subdirectory, and format.
func (p *Persister) Path(name, subdir string, format Format) string {
	if format == "" {
		format = FormatCSV
	}
	return filepath.Join(p.root, subdir, name+"."+string(format))
}

// Write serializes t. The subdirectory must already exist.
func (p *Persister) Write(t *table.Table, name, subdir string, opts Options) error {
	path := p.Path(name, subdir, opts.format())

	switch opts.format() {
	case FormatXLSX:
		if err := table.WriteXLSX(path, name, t, opts.Index); err != nil {
			return eris.Wrapf(err, "persist: write %s", path)
		}
	default:
		if err := writeCSV(path, t, opts); err != nil {
			return err
		}
	}

	zap.L().Info("table written",
		zap.String("path", path),
		zap.Int("rows", t.Len()),
		zap.Int("columns", len(t.Columns())),
	)
	return nil
}

func writeCSV(path string, t *table.Table, opts Options) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "persist: create %s", path)
	}
	if err := table.WriteCSV(f, t, table.CSVOptions{Index: opts.Index}); err != nil {
		_ = f.Close()
		return eris.Wrapf(err, "persist: write %s", path)
	}
	if err := f.Close(); err != nil {
		return eris.Wrapf(err, "persist: close %s", path)
	}
	return nil
}

// Read loads a previously persisted table. Index must match how it was written.
func (p *Persister) Read(ctx context.Context, name, subdir string, opts Options) (*table.Table, error) {
	path := p.Path(name, subdir, opts.format())

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, eris.Wrapf(ErrNotFound, "persist: read %s", path)
		}
		return nil, eris.Wrapf(err, "persist: stat %s", path)
	}

	if opts.format() == FormatXLSX {
		t, err := table.ReadXLSX(path, opts.Index)
		return t, eris.Wrapf(err, "persist: read %s", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "persist: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	t, err := table.ReadCSV(ctx, f, table.CSVOptions{Index: opts.Index})
	if err != nil {
		return nil, eris.Wrapf(err, "persist: read %s", path)
	}
	return t, nil
}

// Layout creates the raw and prepared subdirectories under root.
func Layout(root string) error {
	for _, sub := range []string{SubdirRaw, SubdirPrepared} {
		if err := os.MkdirAll(filepath.Join(root, sub), 0o755); err != nil {
			return eris.Wrapf(err, "persist: create %s", sub)
		}
	}
	return nil
}
