package importer

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCSV(t *testing.T) {
	testCases := map[string]struct {
		input string
		want  [][]string
	}{
		"header and rows": {
			input: "id,name\n1,Alpha\n2,Beta\n",
			want:  [][]string{{"id", "name"}, {"1", "Alpha"}, {"2", "Beta"}},
		},
		"header only": {
			input: "id,name\n",
			want:  [][]string{{"id", "name"}},
		},
		"byte order mark": {
			input: "\xEF\xBB\xBFid,name\n1,Alpha\n",
			want:  [][]string{{"id", "name"}, {"1", "Alpha"}},
		},
		"ragged rows": {
			input: "a,b,c\n1\n1,2,3,4\n",
			want:  [][]string{{"a", "b", "c"}, {"1"}, {"1", "2", "3", "4"}},
		},
		"quoted fields and blank lines": {
			input: "a,b\n\n\"x, y\",\"multi\nline\"\r\n",
			want:  [][]string{{"a", "b"}, {"x, y", "multi\nline"}},
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			got, err := parseCSV(strings.NewReader(tc.input))
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseCSV_Empty(t *testing.T) {
	_, err := parseCSV(strings.NewReader(""))
	assert.True(t, errors.Is(err, ErrEmptyCSV))
}

func TestParseCSV_Malformed(t *testing.T) {
	_, err := parseCSV(strings.NewReader("a,b\n\"unterminated,1\n"))
	assert.Error(t, err)
}

func TestReadCSV_MissingFile(t *testing.T) {
	_, err := ReadCSV(filepath.Join(t.TempDir(), "none.csv"))
	assert.Error(t, err)
}

func TestJob(t *testing.T) {
	job := NewJob(" /data/station.csv ", "/t/glossary.xlsx", "/out/report.xlsx", "Casey")

	require.NoError(t, job.Validate())
	assert.NotEmpty(t, job.ID)
	assert.Equal(t, "/data/station.csv", job.SourceCSV)

	csvName, templateName, outputName := job.Basenames()
	assert.Equal(t, "station.csv", csvName)
	assert.Equal(t, "glossary.xlsx", templateName)
	assert.Equal(t, "report.xlsx", outputName)

	other := NewJob("a", "b", "c", "")
	assert.NotEqual(t, job.ID, other.ID)
}

func TestOutputPath(t *testing.T) {
	testCases := map[string]struct {
		input string
		want  string
	}{
		"no extension":    {"/out/report", "/out/report.xlsx"},
		"xlsx kept":       {"/out/report.xlsx", "/out/report.xlsx"},
		"other extension": {"/out/report.xlsm", "/out/report.xlsm"},
		"trimmed":         {"  /out/report  ", "/out/report.xlsx"},
		"empty":           {"   ", ""},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, OutputPath(tc.input))
		})
	}

	assert.Equal(t, "/out/report.xlsx", NewJob("a.csv", "b.xlsx", "/out/report", "").OutputPath)
}
