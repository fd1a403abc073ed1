package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/movie-collector/internal/progress"
	"github.com/sells-group/movie-collector/internal/table"
)

// Default identifier range and API location.
const (
	DefaultBaseURL = "https://api.themoviedb.org/3"
	DefaultFirstID = 1
	DefaultLastID  = 1000
)

// CatalogOptions configures a catalog fetch.
type CatalogOptions struct {
	BaseURL  string
	APIKey   string
	FirstID  int
	LastID   int
	Progress io.Writer // nil disables the progress bar
}

// MovieURL returns the detail endpoint for one identifier.
func MovieURL(baseURL string, id int, apiKey string) string {
	return fmt.Sprintf("%s/movie/%d?api_key=%s", strings.TrimRight(baseURL, "/"), id, url.QueryEscape(apiKey))
}

// FetchCatalog requests every identifier in [FirstID, LastID] in ascending
// order and returns one row per response body. Bodies for unknown
// identifiers are kept as rows. The first transport or decode failure aborts.
func FetchCatalog(ctx context.Context, f Fetcher, opts CatalogOptions) (*table.Table, error) {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.FirstID == 0 && opts.LastID == 0 {
		opts.FirstID, opts.LastID = DefaultFirstID, DefaultLastID
	}
	if opts.FirstID > opts.LastID {
		return nil, eris.Errorf("catalog: invalid id range [%d, %d]", opts.FirstID, opts.LastID)
	}

	log := zap.L().With(zap.Int("first_id", opts.FirstID), zap.Int("last_id", opts.LastID))
	log.Info("fetching catalog")

	total := opts.LastID - opts.FirstID + 1
	bar := progress.New(int64(total), "Fetching", opts.Progress)
	records := make([]table.Record, 0, total)

	for id := opts.FirstID; id <= opts.LastID; id++ {
		rec, err := fetchOne(ctx, f, MovieURL(opts.BaseURL, id, opts.APIKey))
		if err != nil {
			return nil, eris.Wrapf(err, "catalog: movie %d", id)
		}
		records = append(records, rec)
		bar.Add(1)
	}
	bar.Finish()

	t := table.FromRecords(records)
	log.Info("catalog fetched", zap.Int("rows", t.Len()), zap.Int("columns", len(t.Columns())))
	return t, nil
}

func fetchOne(ctx context.Context, f Fetcher, rawURL string) (table.Record, error) {
	body, err := f.Download(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	defer body.Close() //nolint:errcheck

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, eris.Wrap(err, "read body")
	}
	return table.DecodeRecord(data)
}
