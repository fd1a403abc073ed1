// Package fetcher downloads catalog records over HTTP and collects them into a raw table.
package fetcher

import (
	"context"
	"io"
)

// Fetcher defines the interface for downloading remote data.
type Fetcher interface {
	// Download fetches the URL and returns the response body, whatever the status code.
	Download(ctx context.Context, url string) (io.ReadCloser, error)
}
