package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/stratakg/strata/internal/queue"
	"github.com/stratakg/strata/internal/storage"
	"github.com/stratakg/strata/internal/util"
	"github.com/stratakg/strata/pkg/logger"
)

// newSubmitCmd hands work to the background worker instead of running it
// in-process: documents are uploaded to object storage and a message is
// published to the matching work queue.
func newSubmitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Publish work to the queue for the background worker",
	}
	cmd.AddCommand(newSubmitIngestCmd())
	cmd.AddCommand(newSubmitAnalyzeCmd())
	cmd.AddCommand(newSubmitDiagnoseCmd())
	return cmd
}

func publish(queueName string, payload any) error {
	conn := queue.Init()
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if err := queue.PublishFIFO(ch, queueName, data); err != nil {
		return fmt.Errorf("failed to publish to %q: %w", queueName, err)
	}
	return nil
}

func newSubmitIngestCmd() *cobra.Command {
	var flagEnterprise string

	cmd := &cobra.Command{
		Use:   "ingest <file>...",
		Short: "Upload documents and queue them for extraction",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			s3Client := storage.NewS3Client(ctx)
			if s3Client == nil {
				return fmt.Errorf("object storage is not configured")
			}

			refs := make([]queue.FileRef, 0, len(args))
			for _, path := range args {
				f, err := os.Open(path)
				if err != nil {
					return fmt.Errorf("cannot open %q: %w", path, err)
				}
				id := util.NewID()
				key, err := storage.PutFile(ctx, s3Client, "uploads", filepath.Base(path), id, f)
				f.Close()
				if err != nil {
					return fmt.Errorf("failed to upload %q: %w", path, err)
				}
				logger.Debug("[Submit] Uploaded file", "path", path, "key", key)
				refs = append(refs, queue.FileRef{ID: id, FileKey: key})
			}

			correlationID := util.NewID()
			msg := queue.IngestMsg{
				Message:       "Documents uploaded",
				CorrelationID: correlationID,
				EnterpriseID:  flagEnterprise,
				Files:         refs,
			}
			if err := publish(queue.IngestQueue, msg); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "queued %d files (correlation_id %s)\n", len(refs), correlationID)
			return nil
		},
	}

	cmd.Flags().StringVar(&flagEnterprise, "enterprise", "", "enterprise the documents belong to")
	return cmd
}

func newSubmitAnalyzeCmd() *cobra.Command {
	var (
		flagIndustry string
		flagStandard string
	)

	cmd := &cobra.Command{
		Use:   "analyze <description>",
		Short: "Queue a layered analysis of a business description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			correlationID := util.NewID()
			msg := queue.AnalyzeMsg{
				Message:       "Analysis requested",
				CorrelationID: correlationID,
				Description:   args[0],
				Industry:      flagIndustry,
				Standard:      flagStandard,
			}
			if err := publish(queue.AnalyzeQueue, msg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "queued analysis (correlation_id %s)\n", correlationID)
			return nil
		},
	}

	cmd.Flags().StringVar(&flagIndustry, "industry", "", "industry of the enterprise")
	cmd.Flags().StringVar(&flagStandard, "standard", "ISO9001", "reference standard")
	return cmd
}

func newSubmitDiagnoseCmd() *cobra.Command {
	var (
		flagEnterprise string
		flagStandard   string
		flagUseAI      bool
	)

	cmd := &cobra.Command{
		Use:   "diagnose [uploaded-file-name]...",
		Short: "Queue a document completeness diagnosis",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names := make([]string, 0, len(args))
			for _, arg := range args {
				names = append(names, filepath.Base(arg))
			}

			correlationID := util.NewID()
			msg := queue.DiagnoseMsg{
				Message:       "Diagnosis requested",
				CorrelationID: correlationID,
				EnterpriseID:  flagEnterprise,
				Standard:      flagStandard,
				UploadedNames: names,
				UseAI:         flagUseAI,
			}
			if err := publish(queue.DiagnoseQueue, msg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "queued diagnosis (correlation_id %s)\n", correlationID)
			return nil
		},
	}

	cmd.Flags().StringVar(&flagEnterprise, "enterprise", "", "enterprise to diagnose")
	cmd.Flags().StringVar(&flagStandard, "standard", "ISO9001", "reference standard")
	cmd.Flags().BoolVar(&flagUseAI, "ai", false, "diagnose through the model on the worker")
	return cmd
}
