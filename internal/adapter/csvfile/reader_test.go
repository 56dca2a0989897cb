package csvfile

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixturePath() string {
	return filepath.Join("..", "..", "..", "data", "mock", "catalog_sample.csv")
}

func TestReadRows(t *testing.T) {
	t.Run("header keyed rows", func(t *testing.T) {
		input := "time,mag,Place\n2023-03-05T14:22:10Z,5.4,\"10km SW of Example, Chile\"\n"
		rows, err := ReadRows(strings.NewReader(input))
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "2023-03-05T14:22:10Z", rows[0].Get("time"))
		assert.Equal(t, "5.4", rows[0].Get("mag"))
		assert.Equal(t, "10km SW of Example, Chile", rows[0].Get("place"))
		assert.Empty(t, rows[0].Get("depth"))
	})

	t.Run("values kept as text", func(t *testing.T) {
		input := "mag,nst\n5.0,042\nabc,\n"
		rows, err := ReadRows(strings.NewReader(input))
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "5.0", rows[0].Get("mag"))
		assert.Equal(t, "042", rows[0].Get("nst"))
		assert.Equal(t, "abc", rows[1].Get("mag"))
	})

	t.Run("ragged rows kept", func(t *testing.T) {
		input := "time,mag,depth,place\n2023-01-01,5,10,x\n2023-01-02,4\n2023-01-03,3,7,y,extra\n"
		rows, err := ReadRows(strings.NewReader(input))
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, "4", rows[1].Get("mag"))
		assert.Empty(t, rows[1].Get("depth"))
		assert.Empty(t, rows[1].Get("place"))
		assert.Equal(t, "y", rows[2].Get("place"))
		assert.Len(t, rows[2], 4)
	})

	t.Run("NA text passes through", func(t *testing.T) {
		input := "place,net,mag\nNA,NA,NaN\n"
		rows, err := ReadRows(strings.NewReader(input))
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "NA", rows[0].Get("place"))
		assert.Equal(t, "NA", rows[0].Get("net"))
	})

	t.Run("empty input", func(t *testing.T) {
		rows, err := ReadRows(strings.NewReader(""))
		require.NoError(t, err)
		assert.Empty(t, rows)
	})

	t.Run("header only", func(t *testing.T) {
		rows, err := ReadRows(strings.NewReader("time,mag,depth\n"))
		require.NoError(t, err)
		assert.Empty(t, rows)
	})
}

func TestReader_ExtractRows(t *testing.T) {
	r := NewReader(fixturePath(), slog.Default())
	assert.Equal(t, fixturePath(), r.Source())

	rows, err := r.ExtractRows(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 12)
	assert.Equal(t, "2023-03-05T14:22:10.123Z", rows[0].Get("time"))
	assert.Equal(t, "10km SW of Santiago, Chile", rows[0].Get("place"))
	assert.Equal(t, "mww", rows[0].Get("magtype"))
}

func TestReader_MissingFile(t *testing.T) {
	r := NewReader(filepath.Join(t.TempDir(), "missing.csv"), slog.Default())
	_, err := r.ExtractRows(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open catalog")
}

func TestReader_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewReader(fixturePath(), slog.Default()).ExtractRows(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
