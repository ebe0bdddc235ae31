package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stratakg/strata/internal/util"
	"github.com/stratakg/strata/pkg/analysis"
)

func newAnalyzeCmd() *cobra.Command {
	var (
		flagIndustry        string
		flagStandard        string
		flagDescriptionFile string
		flagSkipFramework   bool
	)

	cmd := &cobra.Command{
		Use:   "analyze [description]",
		Short: "Analyze a business description into the four-layer structure",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			description := ""
			if len(args) == 1 {
				description = args[0]
			}
			if flagDescriptionFile != "" {
				data, err := os.ReadFile(flagDescriptionFile)
				if err != nil {
					return fmt.Errorf("cannot read description file: %w", err)
				}
				description = string(data)
			}
			if strings.TrimSpace(description) == "" {
				return fmt.Errorf("provide a description as argument or via --description-file")
			}

			graphStore, closeStore, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			aiClient, err := newModelClient()
			if err != nil {
				return err
			}

			client := analysis.NewAnalysisClient(analysis.NewAnalysisClientParams{
				MaxRetries: util.GetEnvInt("AI_MAX_RETRIES", 5),
			})
			result, fromModel, err := client.Analyze(ctx, aiClient, analysis.Request{
				Description: description,
				Industry:    flagIndustry,
				Standard:    flagStandard,
			})
			if err != nil {
				return err
			}

			info, err := analysis.ResolveEnterprise(ctx, graphStore, result)
			if err != nil {
				return err
			}
			if !flagSkipFramework {
				if err := analysis.MaterializeFramework(ctx, graphStore, info.EnterpriseID, result.DocumentLayer.Documents); err != nil {
					return err
				}
			}

			out := map[string]any{
				"enterprise": info,
				"from_model": fromModel,
				"analysis":   result,
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}

	cmd.Flags().StringVar(&flagIndustry, "industry", "", "industry of the enterprise")
	cmd.Flags().StringVar(&flagStandard, "standard", "ISO9001", "reference standard")
	cmd.Flags().StringVar(&flagDescriptionFile, "description-file", "", "read the description from a file")
	cmd.Flags().BoolVar(&flagSkipFramework, "skip-framework", false, "do not materialize the document framework")
	return cmd
}
