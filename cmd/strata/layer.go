package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stratakg/strata/pkg/common"
	"github.com/stratakg/strata/pkg/graph"
)

func newLayerCmd() *cobra.Command {
	var flagCSVTo string

	cmd := &cobra.Command{
		Use:   "layer <standard|enterprise|process|document|complete>",
		Short: "Query one layer of the knowledge graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			layer := common.Layer(args[0])
			if !layer.Valid() {
				return fmt.Errorf("unknown layer %q", args[0])
			}

			graphStore, closeStore, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			view, err := graphStore.QueryLayer(ctx, layer)
			if err != nil {
				return err
			}

			if flagCSVTo != "" {
				out, err := os.Create(flagCSVTo)
				if err != nil {
					return err
				}
				defer out.Close()
				if err := graph.ExportLayerCSV(out, view); err != nil {
					return err
				}
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(view)
		},
	}

	cmd.Flags().StringVar(&flagCSVTo, "csv", "", "also write the layer view to this CSV file")
	return cmd
}
