package table

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"

	"github.com/rotisserie/eris"
)

// CSVOptions configures delimited-text encoding and decoding.
type CSVOptions struct {
	Delimiter rune // default ','
	Index     bool // write a leading unnamed row-index column; on read, drop the first column
}

// WriteCSV writes t with a header row. Nulls are written as empty fields.
func WriteCSV(w io.Writer, t *Table, opts CSVOptions) error {
	cw := csv.NewWriter(w)
	if opts.Delimiter != 0 {
		cw.Comma = opts.Delimiter
	}

	header := t.Columns()
	if opts.Index {
		header = append([]string{""}, header...)
	}
	if err := cw.Write(header); err != nil {
		return eris.Wrap(err, "csv: write header")
	}

	for i := 0; i < t.Len(); i++ {
		row := t.rows[i]
		rec := make([]string, 0, len(row)+1)
		if opts.Index {
			rec = append(rec, strconv.Itoa(i))
		}
		for _, v := range row {
			rec = append(rec, v.Text())
		}
		if err := cw.Write(rec); err != nil {
			return eris.Wrapf(err, "csv: write row %d", i)
		}
	}

	cw.Flush()
	return eris.Wrap(cw.Error(), "csv: flush")
}

// StreamCSV reads delimited text and sends rows, header included, to a channel.
// Caller must consume the returned row channel. Errors are sent on the error channel.
// Both channels are closed when processing completes.
func StreamCSV(ctx context.Context, r io.Reader, opts CSVOptions) (<-chan []string, <-chan error) {
	rowCh := make(chan []string, 64)
	errCh := make(chan error, 1)

	go func() {
		defer close(rowCh)
		defer close(errCh)

		reader := csv.NewReader(r)
		if opts.Delimiter != 0 {
			reader.Comma = opts.Delimiter
		}
		reader.FieldsPerRecord = -1 // allow variable fields

		for {
			if ctx.Err() != nil {
				errCh <- eris.Wrap(ctx.Err(), "csv: context cancelled")
				return
			}

			record, err := reader.Read()
			if err == io.EOF {
				return
			}
			if err != nil {
				errCh <- eris.Wrap(err, "csv: read row")
				return
			}

			select {
			case rowCh <- record:
			case <-ctx.Done():
				errCh <- eris.Wrap(ctx.Err(), "csv: context cancelled")
				return
			}
		}
	}()

	return rowCh, errCh
}

// ReadCSV reads a table written by WriteCSV, inferring one kind per column.
func ReadCSV(ctx context.Context, r io.Reader, opts CSVOptions) (*Table, error) {
	rowCh, errCh := StreamCSV(ctx, r, opts)

	var records [][]string
	for rec := range rowCh {
		records = append(records, rec)
	}
	for err := range errCh {
		if err != nil {
			return nil, err
		}
	}
	if len(records) == 0 {
		return nil, eris.New("csv: missing header row")
	}

	header, body := records[0], records[1:]
	if opts.Index && len(header) > 0 {
		header = header[1:]
		for i, rec := range body {
			if len(rec) > 0 {
				body[i] = rec[1:]
			}
		}
	}
	return FromStrings(header, body)
}
