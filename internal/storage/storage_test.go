package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAssignsIDsAndPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exports.csv")
	s := New(path)
	assert.Equal(t, 0, s.Count())

	at := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	stored, err := s.SaveMultiple([]Record{
		{Kind: "complaints", Operator: "Ada", Role: "support", Filters: "Status: Open", Rows: 12, Format: "pdf", GeneratedAt: at},
		{ExportID: "fixed", Kind: "withdrawers", Operator: "Bola", Role: "finance", Filters: "All records", Rows: 3, Format: "html", GeneratedAt: at.Add(time.Hour)},
	})
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.NotEmpty(t, stored[0].ExportID)
	assert.Equal(t, "fixed", stored[1].ExportID)

	reloaded := New(path)
	require.Equal(t, 2, reloaded.Count())

	recent := reloaded.Recent(0)
	assert.Equal(t, "fixed", recent[0].ExportID)
	assert.Equal(t, stored[0].ExportID, recent[1].ExportID)
	assert.Equal(t, "Status: Open", recent[1].Filters)
	assert.Equal(t, 12, recent[1].Rows)
	assert.True(t, at.Equal(recent[1].GeneratedAt))
}

func TestHeaderWrittenOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exports.csv")
	s := New(path)

	_, err := s.Append(Record{Kind: "complaints", Rows: 1, Format: "pdf"})
	require.NoError(t, err)
	_, err = s.Append(Record{Kind: "complaints", Rows: 2, Format: "pdf"})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), "export_id"))
	assert.Equal(t, 3, strings.Count(string(data), "\n"))
}

func TestFiltersWithCommasSurvive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exports.csv")
	_, err := New(path).Append(Record{Kind: "complaints", Filters: `Search: "maize, seeds" · Status: Open`, Format: "pdf"})
	require.NoError(t, err)

	got := New(path).Recent(1)
	require.Len(t, got, 1)
	assert.Equal(t, `Search: "maize, seeds" · Status: Open`, got[0].Filters)
}

func TestMalformedRowsSkipped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exports.csv")
	content := strings.Join([]string{
		strings.Join(header, ","),
		"a,complaints,Ada,support,All records,4,pdf,2024-03-01T09:00:00Z",
		"b,complaints,Ada,support,All records,not-a-number,pdf,2024-03-01T09:00:00Z",
		"short,row",
	}, "\n") + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	s := New(path)
	assert.Equal(t, 1, s.Count())
	assert.Equal(t, "a", s.Recent(0)[0].ExportID)
}

func TestRecentLimit(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "exports.csv"))
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		_, err := s.Append(Record{ExportID: string(rune('a' + i)), GeneratedAt: base.Add(time.Duration(i) * time.Minute)})
		require.NoError(t, err)
	}

	got := s.Recent(2)
	require.Len(t, got, 2)
	assert.Equal(t, "e", got[0].ExportID)
	assert.Equal(t, "d", got[1].ExportID)
}
