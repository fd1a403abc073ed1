package fetcher

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/movie-collector/internal/table"
)

// fakeFetcher serves canned bodies keyed by URL and records request order.
type fakeFetcher struct {
	bodies map[string]string
	errAt  string
	urls   []string
}

func (f *fakeFetcher) Download(_ context.Context, url string) (io.ReadCloser, error) {
	f.urls = append(f.urls, url)
	if url == f.errAt {
		return nil, errors.New("connection reset")
	}
	body, ok := f.bodies[url]
	if !ok {
		body = `{"success":false,"status_code":34}`
	}
	return io.NopCloser(strings.NewReader(body)), nil
}

func TestMovieURL(t *testing.T) {
	assert.Equal(t, "https://api.themoviedb.org/3/movie/7?api_key=k%26y",
		MovieURL("https://api.themoviedb.org/3/", 7, "k&y"))
}

func TestFetchCatalog_AscendingOrderAndUnion(t *testing.T) {
	base := "http://catalog"
	f := &fakeFetcher{bodies: map[string]string{
		MovieURL(base, 1, "key"): `{"id":1,"original_title":"A"}`,
		MovieURL(base, 3, "key"): `{"id":3,"original_title":"C","runtime":95}`,
	}}

	tbl, err := FetchCatalog(context.Background(), f, CatalogOptions{
		BaseURL: base, APIKey: "key", FirstID: 1, LastID: 3,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{
		MovieURL(base, 1, "key"), MovieURL(base, 2, "key"), MovieURL(base, 3, "key"),
	}, f.urls)
	require.Equal(t, 3, tbl.Len())
	assert.Equal(t, []string{"id", "original_title", "success", "status_code", "runtime"}, tbl.Columns())
	assert.Equal(t, table.Int(1), tbl.Get(0, "id"))
	assert.True(t, tbl.Get(1, "id").IsNull())
	assert.Equal(t, table.Int(34), tbl.Get(1, "status_code"))
	assert.Equal(t, table.Int(95), tbl.Get(2, "runtime"))
}

func TestFetchCatalog_TransportErrorAborts(t *testing.T) {
	base := "http://catalog"
	f := &fakeFetcher{errAt: MovieURL(base, 2, "key")}

	_, err := FetchCatalog(context.Background(), f, CatalogOptions{
		BaseURL: base, APIKey: "key", FirstID: 1, LastID: 5,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "movie 2")
	assert.Len(t, f.urls, 2)
}

func TestFetchCatalog_NonJSONBodyAborts(t *testing.T) {
	base := "http://catalog"
	f := &fakeFetcher{bodies: map[string]string{MovieURL(base, 1, "key"): "<html>502</html>"}}

	_, err := FetchCatalog(context.Background(), f, CatalogOptions{
		BaseURL: base, APIKey: "key", FirstID: 1, LastID: 1,
	})
	assert.Error(t, err)
}

func TestFetchCatalog_InvalidRange(t *testing.T) {
	f := &fakeFetcher{}
	_, err := FetchCatalog(context.Background(), f, CatalogOptions{FirstID: 5, LastID: 1})
	require.Error(t, err)
	assert.Empty(t, f.urls)
}

func TestFetchCatalog_DefaultRange(t *testing.T) {
	f := &fakeFetcher{}
	tbl, err := FetchCatalog(context.Background(), f, CatalogOptions{APIKey: "key"})
	require.NoError(t, err)
	assert.Equal(t, DefaultLastID, tbl.Len())
	assert.Equal(t, MovieURL(DefaultBaseURL, 1, "key"), f.urls[0])
	assert.Equal(t, MovieURL(DefaultBaseURL, 1000, "key"), f.urls[len(f.urls)-1])
}

func TestFetchCatalog_OverHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.URL.Query().Get("api_key"))
		var id int
		_, err := fmt.Sscanf(r.URL.Path, "/movie/%d", &id)
		assert.NoError(t, err)
		if id == 2 {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"success":false,"status_code":34,"status_message":"not found"}`)
			return
		}
		fmt.Fprintf(w, `{"id":%d,"genres":[{"id":18,"name":"Drama"}]}`, id)
	}))
	defer srv.Close()

	var progressOut bytes.Buffer
	tbl, err := FetchCatalog(context.Background(), newTestFetcher(), CatalogOptions{
		BaseURL: srv.URL, APIKey: "secret", FirstID: 1, LastID: 3, Progress: &progressOut,
	})
	require.NoError(t, err)
	require.Equal(t, 3, tbl.Len())
	assert.Equal(t, table.Int(3), tbl.Get(2, "id"))
	assert.Equal(t, table.String("not found"), tbl.Get(1, "status_message"))
	assert.Contains(t, progressOut.String(), "Fetched 3/3")
}
