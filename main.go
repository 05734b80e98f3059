package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"bidimport/services"
)

var (
	outputPath string
	layoutPath string
	pretty     bool
	mapRecords bool
	overhead   float64
	profit     float64
	summary    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "bidimport [bidform.xlsx]",
		Short: "Convert a bid-form workbook into a normalized cost estimate",
		Long: `bidimport parses a bid-form spreadsheet (rates, base bid, and optional
vendor quotes sheets) into a normalized cost-estimate structure and outputs
JSON. With --map it emits persistence-ready estimate records instead,
optionally applying external overhead and profit percentages on top of the
markups already embedded in the sheet.`,
		Args: cobra.ExactArgs(1),
		RunE: run,
	}

	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	rootCmd.Flags().StringVar(&layoutPath, "layout", "", "YAML layout file overriding the built-in template contract")
	rootCmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	rootCmd.Flags().BoolVar(&mapRecords, "map", false, "Emit persistence-facing estimate records instead of the raw parse")
	rootCmd.Flags().Float64Var(&overhead, "overhead", 0, "External overhead percentage applied on top of the sheet (implies --map)")
	rootCmd.Flags().Float64Var(&profit, "profit", 0, "External profit percentage applied on top of the sheet (implies --map)")
	rootCmd.Flags().BoolVar(&summary, "summary", false, "Print a human-readable summary instead of JSON")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read workbook: %w", err)
	}

	layout := services.DefaultLayout()
	if layoutPath != "" {
		layout, err = services.LoadLayout(layoutPath)
		if err != nil {
			return err
		}
	}

	parsed := services.Parse(data, layout)
	for _, msg := range parsed.Errors {
		log.Printf("warning: %s", msg)
	}

	if summary {
		printSummary(os.Stdout, parsed)
		return nil
	}

	var payload any = parsed
	if mapRecords || overhead != 0 || profit != 0 {
		payload = services.MapEstimate(parsed, overhead, profit)
	}

	var out []byte
	if pretty {
		out, err = json.MarshalIndent(payload, "", "  ")
	} else {
		out, err = json.Marshal(payload)
	}
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	out = append(out, '\n')

	if outputPath != "" {
		if err := os.WriteFile(outputPath, out, 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		return nil
	}
	_, err = os.Stdout.Write(out)
	return err
}

// printSummary renders the reconciled workbook summary as a small table.
func printSummary(w io.Writer, parsed *services.ParsedWorkbook) {
	if parsed.ProjectInfo.Name != "" {
		fmt.Fprintf(w, "Project: %s", parsed.ProjectInfo.Name)
		if parsed.ProjectInfo.Number != "" {
			fmt.Fprintf(w, " (#%s)", parsed.ProjectInfo.Number)
		}
		fmt.Fprintln(w)
	}

	for _, sec := range parsed.Sections {
		if len(sec.Items) == 0 {
			continue
		}
		fmt.Fprintf(w, "%-22s %3d items  %8.1f hrs  %s sell\n",
			sec.Name, len(sec.Items), sec.Totals.Hours, services.FormatUSD(sec.Totals.Sell))
	}

	s := parsed.Summary
	fmt.Fprintf(w, "Labor:       %s (%.1f hrs)\n", services.FormatUSD(s.LaborCost), s.LaborHours)
	fmt.Fprintf(w, "Material:    %s\n", services.FormatUSD(s.MaterialCost))
	fmt.Fprintf(w, "Subcontract: %s\n", services.FormatUSD(s.SubcontractCost))
	fmt.Fprintf(w, "Subtotal:    %s\n", services.FormatUSD(s.Subtotal))
	fmt.Fprintf(w, "Total price: %s  (margin %s, %.1f%%)\n",
		services.FormatUSD(s.TotalPrice), services.FormatUSD(s.GrossMargin), s.GrossMarginPercent)
}
