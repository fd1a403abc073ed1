package table

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable(t *testing.T) *Table {
	t.Helper()
	tbl := New("id", "title", "runtime", "genres", "adult")
	require.NoError(t, tbl.Append([]Value{Int(1), String("X, the movie"), Float(120.5), JSON(`[{"name":"Action"}]`), Bool(false)}))
	require.NoError(t, tbl.Append([]Value{Int(2), Null(), Float(90), Null(), Bool(true)}))
	return tbl
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleTable(t), CSVOptions{}))

	want := "id,title,runtime,genres,adult\n" +
		"1,\"X, the movie\",120.5,\"[{\"\"name\"\":\"\"Action\"\"}]\",False\n" +
		"2,,90,,True\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteCSV_Index(t *testing.T) {
	tbl := New("a")
	require.NoError(t, tbl.Append([]Value{String("x")}))
	require.NoError(t, tbl.Append([]Value{String("y")}))

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, tbl, CSVOptions{Index: true}))
	assert.Equal(t, ",a\n0,x\n1,y\n", buf.String())
}

func TestReadCSV_InfersColumnKinds(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleTable(t), CSVOptions{}))

	got, err := ReadCSV(context.Background(), &buf, CSVOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "title", "runtime", "genres", "adult"}, got.Columns())
	require.Equal(t, 2, got.Len())
	assert.Equal(t, Int(1), got.Get(0, "id"))
	assert.Equal(t, String("X, the movie"), got.Get(0, "title"))
	assert.True(t, got.Get(1, "title").IsNull())
	assert.Equal(t, Float(120.5), got.Get(0, "runtime"))
	assert.Equal(t, Float(90), got.Get(1, "runtime"))
	assert.Equal(t, String(`[{"name":"Action"}]`), got.Get(0, "genres"))
	assert.Equal(t, Bool(true), got.Get(1, "adult"))
}

func TestReadCSV_Index(t *testing.T) {
	got, err := ReadCSV(context.Background(), strings.NewReader(",a\n0,x\n1,y\n"), CSVOptions{Index: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, got.Columns())
	assert.Equal(t, String("y"), got.Get(1, "a"))
}

func TestReadCSV_ShortRowsPadWithNull(t *testing.T) {
	got, err := ReadCSV(context.Background(), strings.NewReader("a,b\n1\n"), CSVOptions{})
	require.NoError(t, err)
	assert.Equal(t, Int(1), got.Get(0, "a"))
	assert.True(t, got.Get(0, "b").IsNull())
}

func TestReadCSV_Errors(t *testing.T) {
	_, err := ReadCSV(context.Background(), strings.NewReader(""), CSVOptions{})
	assert.Error(t, err)

	_, err = ReadCSV(context.Background(), strings.NewReader("a,a\n1,2\n"), CSVOptions{})
	assert.Error(t, err)

	_, err = ReadCSV(context.Background(), strings.NewReader("a\n1,2\n"), CSVOptions{})
	assert.Error(t, err)
}

func TestStreamCSV_ContextCancellation(t *testing.T) {
	var sb strings.Builder
	for range 10000 {
		sb.WriteString("a,b,c\n")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rowCh, errCh := StreamCSV(ctx, strings.NewReader(sb.String()), CSVOptions{})
	for range rowCh {
	}
	err := <-errCh
	require.Error(t, err)
	assert.Contains(t, err.Error(), "context cancelled")
}

func TestXLSX_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	tbl := New("id", "title", "qtd_genres")
	require.NoError(t, tbl.Append([]Value{Int(1), String("X"), Int(2)}))
	require.NoError(t, tbl.Append([]Value{Int(2), String("Y"), Int(0)}))

	require.NoError(t, WriteXLSX(path, "prepared", tbl, false))

	got, err := ReadXLSX(path, false)
	require.NoError(t, err)
	assert.Equal(t, tbl.Columns(), got.Columns())
	require.Equal(t, 2, got.Len())
	assert.Equal(t, Int(2), got.Get(1, "id"))
	assert.Equal(t, String("Y"), got.Get(1, "title"))
	assert.Equal(t, Int(0), got.Get(1, "qtd_genres"))
}

func TestReadXLSX_MissingFile(t *testing.T) {
	_, err := ReadXLSX(filepath.Join(t.TempDir(), "nope.xlsx"), false)
	assert.Error(t, err)
}
