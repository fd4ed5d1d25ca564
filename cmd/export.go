package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/tone-cli/internal/export"
	"github.com/sells-group/tone-cli/internal/store"
)

var (
	exportOut       string
	exportTicker    string
	exportLimit     int
	exportQuestions bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored results to an XLSX workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		filter := store.SummaryFilter{
			Ticker: exportTicker,
			Limit:  exportLimit,
		}
		if err := export.WriteWorkbook(ctx, st, filter, exportQuestions, exportOut); err != nil {
			return err
		}

		zap.L().Info("export written", zap.String("path", exportOut))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "tone_results.xlsx", "output workbook path")
	exportCmd.Flags().StringVar(&exportTicker, "ticker", "", "filter by ticker")
	exportCmd.Flags().IntVar(&exportLimit, "limit", 0, "max summaries to export (0 = default)")
	exportCmd.Flags().BoolVar(&exportQuestions, "questions", false, "include per-question rows")
	rootCmd.AddCommand(exportCmd)
}
