package main

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"splitcalc/internal/app"
	"splitcalc/internal/core"
	"splitcalc/internal/export"
)

var exportOutput string

var compareCmd = &cobra.Command{
	Use:   "compare <record-id>...",
	Short: "Compare saved calculations category by category",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCompare,
}

var exportCmd = &cobra.Command{
	Use:   "export <record-id>...",
	Short: "Export a comparison as CSV",
	Long: `Write the comparison of the given calculations as CSV. The default file
name carries the current date, e.g. splitcalc-comparison-2024-03-01-18-30.csv.
Use -o - to write to stdout.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: generated name, - for stdout)")
}

// selectRecords marks the given ids for comparison and returns the result.
func selectRecords(cmd *cobra.Command, args []string) (core.Comparison, error) {
	for _, arg := range args {
		rec, err := lookupRecord(arg)
		if err != nil {
			return core.Comparison{}, err
		}
		if _, err := session.Controller.Dispatch(cmd.Context(), app.SetSelected{ID: rec.ID, Selected: true}); err != nil {
			return core.Comparison{}, err
		}
	}
	return session.Controller.Comparison(), nil
}

func runCompare(cmd *cobra.Command, args []string) error {
	cmp, err := selectRecords(cmd, args)
	if err != nil {
		return err
	}

	header := []string{"Category"}
	for _, row := range cmp.Rows {
		header = append(header, row.Label)
	}
	data := pterm.TableData{header}
	for i, category := range cmp.Categories {
		line := []string{category}
		for _, row := range cmp.Rows {
			line = append(line, core.FormatAmount(row.Amounts[i]))
		}
		data = append(data, line)
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		return err
	}

	bars := make(pterm.Bars, 0, len(cmp.Rows))
	for _, row := range cmp.Rows {
		var total float64
		for _, v := range row.Amounts {
			total += v
		}
		bars = append(bars, pterm.Bar{Label: row.Label, Value: int(math.Round(total))})
	}
	pterm.DefaultSection.Println("Totals")
	if err := pterm.DefaultBarChart.WithHorizontal().WithShowValue().WithBars(bars).Render(); err != nil {
		return err
	}

	for _, pair := range cmp.NearDuplicates {
		pterm.Warning.Printf("%q and %q look alike and are compared as separate categories\n", pair.A, pair.B)
	}
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	cmp, err := selectRecords(cmd, args)
	if err != nil {
		return err
	}

	if exportOutput == "-" {
		return export.WriteCSV(cmd.OutOrStdout(), cmp)
	}

	name := exportOutput
	if name == "" {
		name = export.Filename("", time.Now())
	}
	if err := writeCSVFile(name, cmp); err != nil {
		return err
	}
	pterm.Success.Printf("Comparison written to %s\n", name)
	return nil
}

func writeCSVFile(name string, cmp core.Comparison) error {
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	if err := export.WriteCSV(f, cmp); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
