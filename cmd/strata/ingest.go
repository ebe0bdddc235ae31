package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stratakg/strata/internal/util"
	"github.com/stratakg/strata/pkg/common"
	"github.com/stratakg/strata/pkg/graph"
	"github.com/stratakg/strata/pkg/loader"
	"github.com/stratakg/strata/pkg/loader/io"
	"github.com/stratakg/strata/pkg/loader/resolve"
)

func newIngestCmd() *cobra.Command {
	var (
		flagParallel  int
		flagRetries   int
		flagTriplesTo string
	)

	cmd := &cobra.Command{
		Use:   "ingest <file>...",
		Short: "Extract triples from documents and write them to the graph",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			graphStore, closeStore, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			aiClient, err := newModelClient()
			if err != nil {
				return err
			}

			maxTokens := util.GetEnvInt("MAX_PROMPT_TOKENS", 100000)
			source := io.NewIOFileLoader()
			files := make([]loader.DocumentFile, 0, len(args))
			for _, path := range args {
				file, err := resolve.DocumentFile("", path, maxTokens, source)
				if err != nil {
					return fmt.Errorf("cannot ingest %q: %w", path, err)
				}
				files = append(files, file)
			}

			client, err := graph.NewGraphClient(graph.NewGraphClientParams{
				TokenEncoder:    util.GetEnvString("TOKEN_ENCODER", "o200k_base"),
				ParallelFiles:   flagParallel,
				MaxRetries:      flagRetries,
				MaxPromptTokens: maxTokens,
			})
			if err != nil {
				return err
			}

			result, err := client.ProcessFiles(ctx, files, aiClient, graphStore)
			if err != nil {
				return err
			}

			if flagTriplesTo != "" {
				triples := make([]common.Triple, 0)
				for _, f := range result.Files {
					triples = append(triples, f.Triples...)
				}
				out, err := os.Create(flagTriplesTo)
				if err != nil {
					return err
				}
				defer out.Close()
				if err := graph.ExportTriplesCSV(out, triples); err != nil {
					return err
				}
			}

			summary := map[string]any{
				"files":  len(result.Files),
				"failed": len(result.Failed()),
				"nodes":  result.NodesUpsert,
				"edges":  result.EdgesUpsert,
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(summary); err != nil {
				return err
			}

			if failed := result.Failed(); len(failed) == len(files) {
				return fmt.Errorf("all %d files failed", len(files))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&flagParallel, "parallel", 1, "files processed in parallel")
	cmd.Flags().IntVar(&flagRetries, "retries", 5, "attempts per model call")
	cmd.Flags().StringVar(&flagTriplesTo, "triples-csv", "", "also write extracted triples to this CSV file")
	return cmd
}
