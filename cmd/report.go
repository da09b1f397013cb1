package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/urbandata-br/ruido-cli/internal/geofile"
	"github.com/urbandata-br/ruido-cli/internal/report"
)

var (
	reportIn  string
	reportOut string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Write a Pareto frequency workbook for a classified file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		records, err := geofile.Read(reportIn)
		if err != nil {
			return eris.Wrap(err, "report: load input")
		}

		if err := report.WriteWorkbook(reportOut, records); err != nil {
			return eris.Wrap(err, "report: write workbook")
		}

		zap.L().Info("report written",
			zap.Int("records", len(records)),
			zap.String("out", reportOut),
		)
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportIn, "in", "", "classified GeoJSON file (required)")
	reportCmd.Flags().StringVar(&reportOut, "out", "", "output .xlsx path (required)")
	_ = reportCmd.MarkFlagRequired("in")
	_ = reportCmd.MarkFlagRequired("out")
	rootCmd.AddCommand(reportCmd)
}
