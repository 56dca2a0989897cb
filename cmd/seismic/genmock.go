package main

import (
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var (
	gmRows      int
	gmSeed      uint64
	gmOut       string
	gmStartYear int
	gmEndYear   int
	gmBadRatio  float64
	gmQuiet     bool
)

var genmockCmd = &cobra.Command{
	Use:   "genmock",
	Short: "Generate a synthetic catalog CSV for tests and demos",
	Long: `genmock writes a reproducible catalog in the USGS column layout.
Magnitudes follow a Gutenberg-Richter distribution and a share of rows
(--bad-ratio) carries unparseable or missing fields.`,
	Args: cobra.NoArgs,
	// genmock needs no catalog configuration.
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	RunE:              runGenmock,
}

func init() {
	f := genmockCmd.Flags()
	f.IntVar(&gmRows, "rows", 1000, "number of data rows")
	f.Uint64Var(&gmSeed, "seed", 1, "random seed")
	f.StringVarP(&gmOut, "out", "o", "", "output CSV path (default stdout)")
	f.IntVar(&gmStartYear, "start-year", 2015, "first year of event times")
	f.IntVar(&gmEndYear, "end-year", 2023, "last year of event times")
	f.Float64Var(&gmBadRatio, "bad-ratio", 0.02, "share of rows with a broken field, 0..1")
	f.BoolVarP(&gmQuiet, "quiet", "q", false, "suppress the progress bar")
}

var catalogHeader = []string{
	"time", "latitude", "longitude", "depth", "mag", "magType",
	"nst", "gap", "dmin", "rms", "net", "id", "place", "type",
}

// region is a seismically active area events are scattered around.
type region struct {
	name     string
	town     string
	lat, lon float64
	spread   float64
	net      string
	maxDepth float64
}

var regions = []region{
	{"Chile", "Valparaiso", -30, -71, 8, "us", 250},
	{"Japan", "Ishinomaki", 37, 141, 6, "us", 600},
	{"Indonesia", "Palu", -4, 122, 10, "us", 650},
	{"Peru", "Lima", -12, -76, 6, "us", 300},
	{"Mexico", "Oaxaca", 17, -99, 5, "us", 120},
	{"Alaska", "Anchorage", 60, -150, 6, "ak", 200},
	{"CA", "Ridgecrest", 36, -119, 3, "ci", 20},
	{"Hawaii", "Volcano", 19.4, -155.3, 1, "hv", 40},
	{"New Zealand", "Wellington", -41, 174, 4, "us", 350},
	{"Turkey", "Malatya", 38.5, 36.5, 3, "us", 30},
	{"Tonga", "Neiafu", -20, -175, 4, "us", 600},
	{"Fiji", "Suva", -18, 178, 3, "us", 650},
}

var directions = []string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

type mockOptions struct {
	rows      int
	startYear int
	endYear   int
	badRatio  float64
}

func runGenmock(cmd *cobra.Command, _ []string) error {
	if gmRows < 0 {
		return fmt.Errorf("--rows must not be negative, got %d", gmRows)
	}
	if gmEndYear < gmStartYear {
		return fmt.Errorf("--end-year %d is before --start-year %d", gmEndYear, gmStartYear)
	}
	if gmBadRatio < 0 || gmBadRatio > 1 {
		return fmt.Errorf("--bad-ratio must be between 0 and 1, got %g", gmBadRatio)
	}

	var bar *progressbar.ProgressBar
	if !gmQuiet {
		bar = progressbar.NewOptions(gmRows,
			progressbar.OptionSetWriter(cmd.ErrOrStderr()),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(40),
			progressbar.OptionSetDescription("generating events"),
			progressbar.OptionOnCompletion(func() { fmt.Fprintln(cmd.ErrOrStderr()) }),
		)
	}

	rng := rand.New(rand.NewPCG(gmSeed, gmSeed^0x9e3779b97f4a7c15))
	records := generateRecords(rng, mockOptions{
		rows:      gmRows,
		startYear: gmStartYear,
		endYear:   gmEndYear,
		badRatio:  gmBadRatio,
	}, func() {
		if bar != nil {
			_ = bar.Add(1)
		}
	})

	out := cmd.OutOrStdout()
	if gmOut != "" {
		if err := os.MkdirAll(filepath.Dir(gmOut), 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
		f, err := os.Create(gmOut)
		if err != nil {
			return fmt.Errorf("create %s: %w", gmOut, err)
		}
		defer f.Close()
		out = f
	}
	if err := writeRecords(out, records); err != nil {
		return err
	}
	if gmOut != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d events to %s\n", gmRows, gmOut)
	}
	return nil
}

// generateRecords returns the header followed by opts.rows data records.
// tick is called once per generated row.
func generateRecords(rng *rand.Rand, opts mockOptions, tick func()) [][]string {
	records := make([][]string, 0, opts.rows+1)
	records = append(records, catalogHeader)

	start := time.Date(opts.startYear, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(opts.endYear+1, time.January, 1, 0, 0, 0, 0, time.UTC)
	span := end.Sub(start)

	for i := range opts.rows {
		r := regions[rng.IntN(len(regions))]
		at := start.Add(time.Duration(rng.Int64N(int64(span))))
		lat := r.lat + (rng.Float64()*2-1)*r.spread
		lon := wrapLongitude(r.lon + (rng.Float64()*2-1)*r.spread)
		depth := math.Min(r.maxDepth, rng.ExpFloat64()*r.maxDepth/4)
		mag := gutenbergRichter(rng)

		rec := []string{
			at.Format("2006-01-02T15:04:05.000Z"),
			formatFloat(lat, 4),
			formatFloat(lon, 4),
			formatFloat(depth, 2),
			formatFloat(mag, 1),
			magType(mag),
			strconv.Itoa(10 + rng.IntN(200)),
			strconv.Itoa(10 + rng.IntN(180)),
			formatFloat(rng.Float64()*5, 3),
			formatFloat(0.1+rng.Float64(), 2),
			r.net,
			fmt.Sprintf("%s%08d", r.net, i+1),
			fmt.Sprintf("%dkm %s of %s, %s", 1+rng.IntN(150), directions[rng.IntN(len(directions))], r.town, r.name),
			"earthquake",
		}
		if rng.Float64() < opts.badRatio {
			breakField(rng, rec)
		}
		records = append(records, rec)
		tick()
	}
	return records
}

// gutenbergRichter draws a magnitude from 1.0 with b-value 1, capped at 9.5.
func gutenbergRichter(rng *rand.Rand) float64 {
	return math.Min(9.5, 1.0+rng.ExpFloat64()/math.Ln10)
}

// wrapLongitude folds lon into [-180, 180).
func wrapLongitude(lon float64) float64 {
	return math.Mod(math.Mod(lon+180, 360)+360, 360) - 180
}

func magType(mag float64) string {
	switch {
	case mag >= 5.5:
		return "mww"
	case mag >= 4:
		return "mb"
	default:
		return "ml"
	}
}

// breakField blanks or corrupts one field of rec.
func breakField(rng *rand.Rand, rec []string) {
	switch rng.IntN(4) {
	case 0:
		rec[0] = "unknown"
	case 1:
		rec[4] = "?"
	case 2:
		rec[1], rec[2] = "", ""
	default:
		rec[12] = ""
	}
}

func formatFloat(v float64, prec int) string {
	return strconv.FormatFloat(v, 'f', prec, 64)
}

// writeRecords writes records, header first, as CSV.
func writeRecords(w io.Writer, records [][]string) error {
	if len(records) < 2 {
		_, err := fmt.Fprintln(w, strings.Join(records[0], ","))
		return err
	}
	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		return fmt.Errorf("build catalog frame: %w", df.Err)
	}
	if err := df.WriteCSV(w); err != nil {
		return fmt.Errorf("write catalog: %w", err)
	}
	return nil
}
