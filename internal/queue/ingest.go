package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stratakg/strata/internal/util"
	"github.com/stratakg/strata/pkg/ai"
	"github.com/stratakg/strata/pkg/graph"
	"github.com/stratakg/strata/pkg/loader"
	"github.com/stratakg/strata/pkg/leaselock"
	s3loader "github.com/stratakg/strata/pkg/loader/resolve"
	loaders3 "github.com/stratakg/strata/pkg/loader/s3"
	"github.com/stratakg/strata/pkg/logger"
	pgxstore "github.com/stratakg/strata/pkg/store/pgx"
)

// ProcessIngestMessage handles one ingest batch: resolve each file reference
// into a document loader backed by object storage, run extraction, and write
// the resulting graph. A file that fails is reported but does not fail the
// message; the message itself fails only when nothing could be processed.
func ProcessIngestMessage(
	ctx context.Context,
	s3Client *awss3.Client,
	aiClient ai.ModelClient,
	conn *pgxpool.Pool,
	msg string,
) error {
	data := new(IngestMsg)
	if err := json.Unmarshal([]byte(msg), data); err != nil {
		return fmt.Errorf("failed to decode ingest message: %w", err)
	}
	if len(data.Files) == 0 {
		logger.Warn("[Queue] Ingest message without files", "correlation_id", data.CorrelationID)
		return nil
	}

	bucket := util.GetEnvString("AWS_BUCKET", "strata")
	source := loaders3.NewS3FileLoader(bucket, s3Client)
	maxTokens := util.GetEnvInt("MAX_PROMPT_TOKENS", 100000)

	files := make([]loader.DocumentFile, 0, len(data.Files))
	for _, ref := range data.Files {
		file, err := s3loader.DocumentFile(ref.ID, ref.FileKey, maxTokens, source)
		if err != nil {
			logger.Error("[Queue] Skipping unsupported file", "file", ref.FileKey, "err", err)
			continue
		}
		files = append(files, file)
	}
	if len(files) == 0 {
		return fmt.Errorf("no processable files in batch %q", data.CorrelationID)
	}

	client, err := graph.NewGraphClient(graph.NewGraphClientParams{
		TokenEncoder:    util.GetEnvString("TOKEN_ENCODER", "o200k_base"),
		ParallelFiles:   util.GetEnvInt("PARALLEL_FILES", 1),
		MaxRetries:      util.GetEnvInt("AI_MAX_RETRIES", 5),
		MaxPromptTokens: maxTokens,
	})
	if err != nil {
		return fmt.Errorf("failed to create graph client: %w", err)
	}

	graphStore := pgxstore.NewPgxGraphStore(conn)

	// Batches for the same enterprise are serialized across workers; other
	// enterprises proceed concurrently.
	lockKey := "ingest"
	if data.EnterpriseID != "" {
		lockKey = "ingest:" + data.EnterpriseID
	}
	locks := leaselock.New(conn)

	var result *graph.ProcessResult
	err = locks.WithLease(ctx, lockKey, leaselock.Options{
		TTL:  10 * time.Minute,
		Wait: true,
	}, func(ctx context.Context) error {
		var processErr error
		result, processErr = client.ProcessFiles(ctx, files, aiClient, graphStore)
		return processErr
	})
	if err != nil {
		return fmt.Errorf("failed to process batch %q: %w", data.CorrelationID, err)
	}

	failed := result.Failed()
	for _, f := range failed {
		logger.Error("[Queue] File failed in batch", "correlation_id", data.CorrelationID, "file", f.FilePath, "err", f.Err)
	}
	if len(failed) == len(files) {
		return fmt.Errorf("all %d files failed in batch %q", len(files), data.CorrelationID)
	}

	logger.Info("[Queue] Ingest batch done",
		"correlation_id", data.CorrelationID,
		"files", len(files),
		"failed", len(failed),
		"nodes", result.NodesUpsert,
		"edges", result.EdgesUpsert,
	)
	return nil
}
