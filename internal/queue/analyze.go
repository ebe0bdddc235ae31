package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stratakg/strata/internal/util"
	"github.com/stratakg/strata/pkg/ai"
	"github.com/stratakg/strata/pkg/analysis"
	"github.com/stratakg/strata/pkg/logger"
	pgxstore "github.com/stratakg/strata/pkg/store/pgx"
)

// ProcessAnalyzeMessage handles one layered-analysis request: analyze the
// description, resolve the enterprise in the graph, and materialize the
// generated document framework.
func ProcessAnalyzeMessage(
	ctx context.Context,
	aiClient ai.ModelClient,
	conn *pgxpool.Pool,
	msg string,
) error {
	data := new(AnalyzeMsg)
	if err := json.Unmarshal([]byte(msg), data); err != nil {
		return fmt.Errorf("failed to decode analyze message: %w", err)
	}

	client := analysis.NewAnalysisClient(analysis.NewAnalysisClientParams{
		MaxRetries: util.GetEnvInt("AI_MAX_RETRIES", 5),
	})

	result, fromModel, err := client.Analyze(ctx, aiClient, analysis.Request{
		Description: data.Description,
		Industry:    data.Industry,
		Standard:    data.Standard,
	})
	if err != nil {
		return fmt.Errorf("failed to analyze description %q: %w", data.CorrelationID, err)
	}

	graphStore := pgxstore.NewPgxGraphStore(conn)
	info, err := analysis.ResolveEnterprise(ctx, graphStore, result)
	if err != nil {
		return fmt.Errorf("failed to resolve enterprise for %q: %w", data.CorrelationID, err)
	}

	if err := analysis.MaterializeFramework(ctx, graphStore, info.EnterpriseID, result.DocumentLayer.Documents); err != nil {
		return fmt.Errorf("failed to materialize framework for %q: %w", data.CorrelationID, err)
	}

	logger.Info("[Queue] Analysis done",
		"correlation_id", data.CorrelationID,
		"enterprise", info.EnterpriseID,
		"from_model", fromModel,
	)
	return nil
}
