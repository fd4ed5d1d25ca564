package main

import (
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/tone-cli/internal/pipeline"
)

var batchDir string

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Score every transcript under a directory",
	Long:  "Walks the transcripts directory, scoring each JSON file under its own run id. Files are independent: one malformed or failed transcript never blocks the rest.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		dir := batchDir
		if dir == "" {
			dir = cfg.Data.TranscriptsDir
		}

		files, err := collectTranscriptFiles(dir)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			zap.L().Warn("batch: no transcript files found", zap.String("dir", dir))
			return nil
		}

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		var (
			mu      sync.Mutex
			results []*pipeline.Result
			failed  int
		)

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(cfg.Batch.MaxConcurrentTranscripts)

		for _, path := range files {
			g.Go(func() error {
				result, err := env.Pipeline.ProcessFile(gctx, path)
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					failed++
					zap.L().Error("batch: transcript failed",
						zap.String("file", path),
						zap.Error(err),
					)
					return nil
				}
				results = append(results, result)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		sort.Slice(results, func(i, j int) bool {
			if results[i].Ticker != results[j].Ticker {
				return results[i].Ticker < results[j].Ticker
			}
			return results[i].CallDate < results[j].CallDate
		})

		zap.L().Info("batch complete",
			zap.Int("processed", len(results)),
			zap.Int("failed", failed),
		)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	},
}

// collectTranscriptFiles returns every .json file under dir, sorted for
// stable processing order.
func collectTranscriptFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".json") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, eris.Wrapf(err, "walk transcripts dir %s", dir)
	}
	sort.Strings(files)
	return files, nil
}

func init() {
	batchCmd.Flags().StringVar(&batchDir, "dir", "", "transcripts directory (defaults to data.transcripts_dir)")
	rootCmd.AddCommand(batchCmd)
}
