package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
)

var runFile string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Score a single transcript file",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		result, err := env.Pipeline.ProcessFile(ctx, runFile)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	runCmd.Flags().StringVar(&runFile, "file", "", "path to a transcript JSON file")
	runCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(runCmd)
}
