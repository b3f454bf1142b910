package export

import (
	"encoding/csv"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readCSV(t *testing.T, fsys afero.Fs, path string) [][]string {
	t.Helper()
	data, err := afero.ReadFile(fsys, path)
	require.NoError(t, err)
	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	require.NoError(t, err)
	return records
}

func TestCSVSink_HeaderOnce(t *testing.T) {
	fsys := afero.NewMemMapFs()
	sink := NewCSVSink(fsys, "/output")

	require.NoError(t, sink.Append([]Row{{Title: "Arrival", Rewatch: "No"}}))
	require.NoError(t, sink.Append([]Row{{Title: "Heat", Rewatch: "Yes"}, {Title: "Alien", Rewatch: "No"}}))

	records := readCSV(t, fsys, sink.Path())
	require.Len(t, records, 4)
	assert.Equal(t, Columns, records[0])
	assert.Equal(t, "Arrival", records[1][0])
	assert.Equal(t, "Heat", records[2][0])
	assert.Equal(t, "Alien", records[3][0])
}

func TestCSVSink_EmptyAppendCreatesNothing(t *testing.T) {
	fsys := afero.NewMemMapFs()
	sink := NewCSVSink(fsys, "/output")

	require.NoError(t, sink.Append(nil))

	exists, err := afero.Exists(fsys, sink.Path())
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCSVSink_AppendsToExistingFileWithoutHeader(t *testing.T) {
	fsys := afero.NewMemMapFs()
	sink := NewCSVSink(fsys, "/output")
	existing := strings.Join(Columns, ",") + "\nOld,1999,2020-01-01,,No,,,,,\n"
	require.NoError(t, afero.WriteFile(fsys, sink.Path(), []byte(existing), 0o644))

	require.NoError(t, sink.Append([]Row{{Title: "New", Rewatch: "No"}}))

	records := readCSV(t, fsys, sink.Path())
	require.Len(t, records, 3)
	assert.Equal(t, Columns, records[0])
	assert.Equal(t, "Old", records[1][0])
	assert.Equal(t, "New", records[2][0])
}

func TestCSVSink_QuotesCommas(t *testing.T) {
	fsys := afero.NewMemMapFs()
	sink := NewCSVSink(fsys, "/output")

	require.NoError(t, sink.Append([]Row{{Title: "Crouching Tiger, Hidden Dragon", Genres: "Action, Drama"}}))

	records := readCSV(t, fsys, sink.Path())
	assert.Equal(t, "Crouching Tiger, Hidden Dragon", records[1][0])
	assert.Equal(t, "Action, Drama", records[1][7])
}
