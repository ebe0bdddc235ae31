package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stratakg/strata/internal/util"
	"github.com/stratakg/strata/pkg/ai"
	"github.com/stratakg/strata/pkg/common"
	"github.com/stratakg/strata/pkg/diagnosis"
	"github.com/stratakg/strata/pkg/logger"
	pgxstore "github.com/stratakg/strata/pkg/store/pgx"
)

// ProcessDiagnoseMessage handles one completeness diagnosis. Uploaded names
// default to the enterprise's document layer in the graph when the message
// does not carry them explicitly.
func ProcessDiagnoseMessage(
	ctx context.Context,
	aiClient ai.ModelClient,
	conn *pgxpool.Pool,
	msg string,
) error {
	data := new(DiagnoseMsg)
	if err := json.Unmarshal([]byte(msg), data); err != nil {
		return fmt.Errorf("failed to decode diagnose message: %w", err)
	}

	standard := data.Standard
	if standard == "" {
		standard = "ISO9001"
	}
	framework, err := diagnosis.BuiltinFramework(standard)
	if err != nil {
		return fmt.Errorf("failed to load framework for %q: %w", data.CorrelationID, err)
	}

	uploadedNames := data.UploadedNames
	if len(uploadedNames) == 0 {
		graphStore := pgxstore.NewPgxGraphStore(conn)
		view, err := graphStore.QueryLayer(ctx, common.LayerDocument)
		if err != nil {
			return fmt.Errorf("failed to query document layer for %q: %w", data.CorrelationID, err)
		}
		for _, node := range view.Nodes {
			uploadedNames = append(uploadedNames, node.Name)
		}
	}

	var result *common.DiagnosisResult
	if data.UseAI {
		client := diagnosis.NewAIDiagnosisClient(diagnosis.NewAIDiagnosisClientParams{
			MaxRetries: util.GetEnvInt("AI_MAX_RETRIES", 3),
		})
		result, err = client.Diagnose(ctx, aiClient, framework, uploadedNames)
	} else {
		result, err = diagnosis.Diagnose(framework, uploadedNames)
	}
	if err != nil {
		return fmt.Errorf("failed to diagnose %q: %w", data.CorrelationID, err)
	}

	logger.Info("[Queue] Diagnosis done",
		"correlation_id", data.CorrelationID,
		"standard", standard,
		"mode", result.Mode,
		"completeness", result.CompletenessRate,
		"missing", len(result.MissingDocuments),
	)
	return nil
}
