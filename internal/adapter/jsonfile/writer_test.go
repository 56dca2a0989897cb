package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/couchcryptid/seismic-catalog-etl/internal/dashboard"
	"github.com/couchcryptid/seismic-catalog-etl/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSnapshot(t *testing.T, year string) dashboard.Snapshot {
	t.Helper()
	events := domain.NormalizeRows([]domain.RawRow{
		{"time": "2023-03-05T01:00:00Z", "mag": "4.5", "depth": "10", "latitude": "1", "longitude": "2", "place": "X, Chile"},
		{"time": "2023-03-06T01:00:00Z", "mag": "bad"},
	})
	b := dashboard.NewBuilder(dashboard.DefaultOptions(), domain.DefaultSchemes())
	sel, err := dashboard.ParseSelection(year, "mag")
	require.NoError(t, err)
	return b.Snapshot(domain.NewCatalog("fixture.csv", events), sel)
}

func TestSnapshotPath(t *testing.T) {
	tests := []struct {
		base string
		want string
	}{
		{"out/dashboard.json", "out/dashboard-2023-mag.json"},
		{"out/dashboard", "out/dashboard-2023-mag.json"},
		{"snap.txt", "snap-2023-mag.txt"},
	}
	for _, tt := range tests {
		t.Run(tt.base, func(t *testing.T) {
			assert.Equal(t, tt.want, SnapshotPath(tt.base, "2023", "mag"))
		})
	}
}

func TestFileWriter(t *testing.T) {
	dir := t.TempDir()
	w := NewFileWriter(filepath.Join(dir, "nested", "dashboard.json"), slog.Default())

	require.NoError(t, w.LoadSnapshot(context.Background(), testSnapshot(t, "2023")))
	require.NoError(t, w.LoadSnapshot(context.Background(), testSnapshot(t, "all")))

	data, err := os.ReadFile(filepath.Join(dir, "nested", "dashboard-2023-mag.json"))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "2023", decoded["year"])
	assert.Equal(t, "fixture.csv", decoded["source"])

	_, err = os.Stat(filepath.Join(dir, "nested", "dashboard-all-mag.json"))
	require.NoError(t, err)

	entries, err := os.ReadDir(filepath.Join(dir, "nested"))
	require.NoError(t, err)
	assert.Len(t, entries, 2, "no temp files left behind")
}

func TestStreamWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewStreamWriter(&buf, slog.Default())

	require.NoError(t, w.LoadSnapshot(context.Background(), testSnapshot(t, "2023")))
	require.NoError(t, w.LoadSnapshot(context.Background(), testSnapshot(t, "1999")))

	dec := json.NewDecoder(&buf)
	var first, second map[string]any
	require.NoError(t, dec.Decode(&first))
	require.NoError(t, dec.Decode(&second))
	assert.Equal(t, "2023", first["year"])
	assert.Equal(t, "1999", second["year"])

	overview := second["overview"].(map[string]any)
	magnitude := overview["magnitude"].(map[string]any)
	assert.Nil(t, magnitude["mean"], "empty year encodes undefined statistics as null")
	assert.False(t, dec.More())
}

func TestWriter_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w := NewStreamWriter(&bytes.Buffer{}, slog.Default())
	require.ErrorIs(t, w.LoadSnapshot(ctx, testSnapshot(t, "2023")), context.Canceled)
}
