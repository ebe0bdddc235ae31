package main

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/stratakg/strata/internal/util"
	"github.com/stratakg/strata/pkg/common"
	"github.com/stratakg/strata/pkg/diagnosis"
)

func newDiagnoseCmd() *cobra.Command {
	var (
		flagStandard      string
		flagFrameworkFile string
		flagUseAI         bool
		flagMissingTo     string
	)

	cmd := &cobra.Command{
		Use:   "diagnose <uploaded-file-name>...",
		Short: "Diagnose document completeness against a standard's framework",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var framework *common.DiagnosisFramework
			var err error
			if flagFrameworkFile != "" {
				framework, err = diagnosis.LoadFramework(flagFrameworkFile)
			} else {
				framework, err = diagnosis.BuiltinFramework(flagStandard)
			}
			if err != nil {
				return err
			}

			uploadedNames := make([]string, 0, len(args))
			for _, arg := range args {
				uploadedNames = append(uploadedNames, filepath.Base(arg))
			}

			var result *common.DiagnosisResult
			if flagUseAI {
				aiClient, err := newModelClient()
				if err != nil {
					return err
				}
				client := diagnosis.NewAIDiagnosisClient(diagnosis.NewAIDiagnosisClientParams{
					MaxRetries: util.GetEnvInt("AI_MAX_RETRIES", 3),
				})
				result, err = client.Diagnose(ctx, aiClient, framework, uploadedNames)
				if err != nil {
					return err
				}
			} else {
				result, err = diagnosis.Diagnose(framework, uploadedNames)
				if err != nil {
					return err
				}
			}

			if flagMissingTo != "" {
				out, err := os.Create(flagMissingTo)
				if err != nil {
					return err
				}
				defer out.Close()
				if err := diagnosis.ExportMissingCSV(out, result); err != nil {
					return err
				}
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}

	cmd.Flags().StringVar(&flagStandard, "standard", "ISO9001", "reference standard for the builtin framework")
	cmd.Flags().StringVar(&flagFrameworkFile, "framework", "", "load the framework from a YAML file instead")
	cmd.Flags().BoolVar(&flagUseAI, "ai", false, "diagnose through the model, falling back to the local heuristic")
	cmd.Flags().StringVar(&flagMissingTo, "missing-csv", "", "also write missing documents to this CSV file")
	return cmd
}
