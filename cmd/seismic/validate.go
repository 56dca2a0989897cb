package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/couchcryptid/seismic-catalog-etl/internal/adapter/csvfile"
	"github.com/couchcryptid/seismic-catalog-etl/internal/aggregate"
	"github.com/couchcryptid/seismic-catalog-etl/internal/domain"
	"github.com/spf13/cobra"
)

var valStrict bool

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Report fields that fail to parse in the catalog",
	Long: `validate normalizes every row of the catalog and reports, per typed
column, how many values were left undefined, followed by descriptive statistics
of the parsed values. With --strict it fails when any row lacks a parseable
time or magnitude.`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().BoolVar(&valStrict, "strict", false, "fail when a row has no time or magnitude")
}

// validationReport is the outcome of one validate run.
type validationReport struct {
	Rows      int
	Undefined map[domain.Column]int
	Years     []aggregate.KeyCount[int]
	Networks  []aggregate.KeyCount[string]
	Stats     map[domain.Column]aggregate.Summary
}

// dated is the number of events with a parseable year.
func (r validationReport) dated() int { return aggregate.Total(r.Years) }

func (r validationReport) incomplete() int {
	return max(r.Undefined[domain.ColumnTime], r.Undefined[domain.ColumnMag])
}

func runValidate(cmd *cobra.Command, _ []string) error {
	rows, err := csvfile.NewReader(cfg.DataPath, logger).ExtractRows(cmd.Context())
	if err != nil {
		return err
	}
	report := buildReport(domain.NormalizeRows(rows))
	printReport(cmd.OutOrStdout(), cfg.DataPath, report)

	if valStrict && report.incomplete() > 0 {
		return fmt.Errorf("%d rows without time (%d) or magnitude (%d)",
			report.incomplete(), report.Undefined[domain.ColumnTime], report.Undefined[domain.ColumnMag])
	}
	return nil
}

func buildReport(events []domain.SeismicEvent) validationReport {
	r := validationReport{
		Rows:      len(events),
		Undefined: make(map[domain.Column]int),
		Years:     aggregate.YearlyCounts(events),
		Networks:  aggregate.SortByCount(aggregate.NetworkCounts(events)),
		Stats:     make(map[domain.Column]aggregate.Summary),
	}
	for _, c := range domain.NumericColumns() {
		r.Stats[c] = aggregate.Summarize(c.Values(events))
	}
	for i := range events {
		for _, c := range events[i].UndefinedFields() {
			r.Undefined[c]++
		}
	}
	return r
}

func printReport(w io.Writer, source string, r validationReport) {
	fmt.Fprintf(w, "%s: %d rows, %d dated\n\n", source, r.Rows, r.dated())

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "COLUMN\tUNDEFINED\tPERCENT")
	for _, c := range append([]domain.Column{domain.ColumnTime}, domain.NumericColumns()...) {
		n := r.Undefined[c]
		pct := 0.0
		if r.Rows > 0 {
			pct = 100 * float64(n) / float64(r.Rows)
		}
		fmt.Fprintf(tw, "%s\t%d\t%.1f%%\n", c, n, pct)
	}
	tw.Flush()

	fmt.Fprintln(w)
	tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "COLUMN\tCOUNT\tMEAN\tMEDIAN\tMIN\tMAX\tSTD\tIQR")
	for _, c := range domain.NumericColumns() {
		s := r.Stats[c]
		b := s.Boxplot()
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\t%s\t%s\n", c, s.Count,
			aggregate.FormatStat(s.Mean, 2),
			aggregate.FormatStat(s.Median, 2),
			aggregate.FormatStat(s.Min, 2),
			aggregate.FormatStat(s.Max, 2),
			aggregate.FormatStat(s.StdDev, 2),
			aggregate.FormatStat(b.IQR(), 2),
		)
	}
	tw.Flush()

	fmt.Fprintln(w)
	tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "YEAR\tEVENTS")
	for _, y := range r.Years {
		fmt.Fprintf(tw, "%d\t%d\n", y.Key, y.Count)
	}
	tw.Flush()

	if len(r.Networks) > 0 {
		fmt.Fprintln(w)
		tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "NETWORK\tEVENTS")
		for _, n := range r.Networks {
			fmt.Fprintf(tw, "%s\t%d\n", n.Key, n.Count)
		}
		tw.Flush()
	}
}
