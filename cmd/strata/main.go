package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/stratakg/strata/internal/db"
	"github.com/stratakg/strata/internal/util"
	"github.com/stratakg/strata/pkg/ai"
	oai "github.com/stratakg/strata/pkg/ai/ollama"
	gai "github.com/stratakg/strata/pkg/ai/openai"
	"github.com/stratakg/strata/pkg/logger"
	"github.com/stratakg/strata/pkg/logger/console"
	"github.com/stratakg/strata/pkg/store"
	"github.com/stratakg/strata/pkg/store/memory"
	pgxstore "github.com/stratakg/strata/pkg/store/pgx"
)

var (
	flagDebug       bool
	flagDatabaseURL string
)

func main() {
	util.LoadEnv()

	root := &cobra.Command{
		Use:   "strata",
		Short: "Build and diagnose layered enterprise knowledge graphs",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Init(console.NewConsoleLogger(console.ConsoleLoggerParams{
				Debug: flagDebug,
			}))
		},
	}
	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug logging")
	root.PersistentFlags().StringVar(&flagDatabaseURL, "database-url", "", "Postgres DSN; in-memory graph when empty (defaults to DATABASE_URL)")

	root.AddCommand(newIngestCmd())
	root.AddCommand(newAnalyzeCmd())
	root.AddCommand(newDiagnoseCmd())
	root.AddCommand(newLayerCmd())
	root.AddCommand(newSubmitCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// openStore picks the graph backend: Postgres when a DSN is configured,
// otherwise a process-local in-memory store. The cleanup func is a no-op for
// the in-memory case.
func openStore(ctx context.Context) (store.GraphStore, func(), error) {
	dsn := flagDatabaseURL
	if dsn == "" {
		dsn = util.GetEnvString("DATABASE_URL", "")
	}
	if dsn == "" {
		logger.Debug("No database configured, using in-memory graph")
		return memory.NewMemoryGraphStore(), func() {}, nil
	}

	if err := db.Migrate(dsn); err != nil {
		return nil, nil, err
	}
	pool, err := db.Connect(ctx, dsn)
	if err != nil {
		return nil, nil, err
	}
	return pgxstore.NewPgxGraphStore(pool), pool.Close, nil
}

func newModelClient() (ai.ModelClient, error) {
	if util.GetEnv("AI_ADAPTER") == "ollama" {
		return oai.NewModelOllamaClient(oai.NewModelOllamaClientParams{
			ExtractionModel: util.GetEnv("AI_EXTRACT_MODEL"),
			AnalysisModel:   util.GetEnv("AI_ANALYSIS_MODEL"),
			BaseURL:         util.GetEnv("AI_URL"),
			APIKey:          util.GetEnv("AI_KEY"),
		})
	}
	return gai.NewModelOpenAIClient(gai.NewModelOpenAIClientParams{
		ExtractionModel: util.GetEnv("AI_EXTRACT_MODEL"),
		AnalysisModel:   util.GetEnv("AI_ANALYSIS_MODEL"),
		BaseURL:         util.GetEnv("AI_URL"),
		APIKey:          util.GetEnv("AI_KEY"),
	}), nil
}
