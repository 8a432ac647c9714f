package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/vmarins/oohplanner/internal/db"
	"github.com/vmarins/oohplanner/internal/models"
	"github.com/vmarins/oohplanner/internal/planning"
)

// OptimizeBudgetInput asks for a raw greedy allocation over the filtered inventory.
type OptimizeBudgetInput struct {
	Budget        float64 `json:"budget"`
	CampaignCycle int     `json:"campaign_cycle"`
	Taxonomy      string  `json:"taxonomy,omitempty"`
	Market        string  `json:"market,omitempty"`
}

type OptimizeBudgetOutput struct {
	Result *models.AllocationResult `json:"result"`
}

// BuildIdealPlanInput asks for a format-grouped ideal plan.
type BuildIdealPlanInput struct {
	Budget        float64 `json:"budget"`
	CampaignCycle int     `json:"campaign_cycle"`
	Taxonomy      string  `json:"taxonomy,omitempty"`
	Market        string  `json:"market,omitempty"`
}

type BuildIdealPlanOutput struct {
	Plan *models.IdealPlan `json:"plan"`
}

// PlannerServer holds the MCP tool dependencies.
type PlannerServer struct {
	pg     *db.Postgres
	engine *planning.Engine
	logger *zap.Logger
}

func (s *PlannerServer) loadInventory(ctx context.Context, taxonomy, market string) ([]models.InventoryItem, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.pg.LoadInventory(ctx, models.InventoryFilter{Taxonomy: taxonomy, Market: market})
}

// OptimizeBudget implements the optimize_budget tool.
func (s *PlannerServer) OptimizeBudget(ctx context.Context, req *mcp.CallToolRequest, input OptimizeBudgetInput) (*mcp.CallToolResult, OptimizeBudgetOutput, error) {
	items, err := s.loadInventory(ctx, input.Taxonomy, input.Market)
	if err != nil {
		return nil, OptimizeBudgetOutput{}, fmt.Errorf("load inventory: %w", err)
	}

	result, err := s.engine.Allocate(input.Budget, input.CampaignCycle, items)
	if err != nil {
		return nil, OptimizeBudgetOutput{}, err
	}

	s.logger.Info("optimize_budget completed",
		zap.Float64("budget", input.Budget),
		zap.Float64("allocated", result.AllocatedBudget),
		zap.Int("faces", result.FacesCount),
		zap.String("budget_status", result.BudgetStatus))

	return nil, OptimizeBudgetOutput{Result: result}, nil
}

// BuildIdealPlan implements the build_ideal_plan tool.
func (s *PlannerServer) BuildIdealPlan(ctx context.Context, req *mcp.CallToolRequest, input BuildIdealPlanInput) (*mcp.CallToolResult, BuildIdealPlanOutput, error) {
	items, err := s.loadInventory(ctx, input.Taxonomy, input.Market)
	if err != nil {
		return nil, BuildIdealPlanOutput{}, fmt.Errorf("load inventory: %w", err)
	}

	plan, err := s.engine.BuildIdealPlan(input.Budget, input.CampaignCycle, input.Taxonomy, input.Market, items)
	if err != nil {
		return nil, BuildIdealPlanOutput{}, err
	}

	s.logger.Info("build_ideal_plan completed",
		zap.String("plan_id", plan.ID),
		zap.Int("groups", len(plan.Groups)),
		zap.Float64("allocated", plan.AllocatedBudget))

	return nil, BuildIdealPlanOutput{Plan: plan}, nil
}

func main() {
	// Logger writes to stderr only: stdout belongs to the MCP stdio transport.
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	// Use same encoder config as observability package for consistency
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.LevelKey = "level"
	cfg.EncoderConfig.NameKey = "logger"
	cfg.EncoderConfig.CallerKey = "caller"
	cfg.EncoderConfig.MessageKey = "msg"
	cfg.EncoderConfig.StacktraceKey = "stacktrace"

	logger, err := cfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger = logger.Named("oohplanner-mcp").With(zap.String("service", "oohplanner-mcp"))

	logger.Info("Starting planning MCP server")

	postgresURL := os.Getenv("POSTGRES_DSN")
	if postgresURL == "" {
		logger.Fatal("POSTGRES_DSN environment variable is required")
	}

	pg, err := db.InitPostgres(postgresURL, 10, 5, 30*time.Minute, time.Minute)
	if err != nil {
		logger.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer pg.Close()
	logger.Info("Connected to PostgreSQL")

	planner := &PlannerServer{
		pg:     pg,
		engine: planning.NewEngine(logger),
		logger: logger,
	}

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "oohplanner",
		Version: "1.0.0",
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "optimize_budget",
		Description: "Distribute a campaign budget over the out-of-home inventory, funding the best-scoring faces first",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"budget": map[string]interface{}{
					"type":        "number",
					"description": "Campaign budget in currency units",
				},
				"campaign_cycle": map[string]interface{}{
					"type":        "integer",
					"description": "Campaign duration in weekly cycles (e.g. 4 for a month)",
				},
				"taxonomy": map[string]interface{}{
					"type":        "string",
					"description": "Client taxonomy segment filter (optional, 'Tudo' matches all)",
				},
				"market": map[string]interface{}{
					"type":        "string",
					"description": "Market/city filter (optional, 'Tudo' matches all)",
				},
			},
			"required": []string{"budget", "campaign_cycle"},
		},
	}, planner.OptimizeBudget)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "build_ideal_plan",
		Description: "Build a format-grouped ideal media plan for a budget, the benchmark for manual adjustments",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"budget": map[string]interface{}{
					"type":        "number",
					"description": "Campaign budget in currency units",
				},
				"campaign_cycle": map[string]interface{}{
					"type":        "integer",
					"description": "Campaign duration in weekly cycles",
				},
				"taxonomy": map[string]interface{}{
					"type":        "string",
					"description": "Client taxonomy segment filter (optional)",
				},
				"market": map[string]interface{}{
					"type":        "string",
					"description": "Market/city filter (optional)",
				},
			},
			"required": []string{"budget", "campaign_cycle"},
		},
	}, planner.BuildIdealPlan)

	stdioTransport := &mcp.StdioTransport{}

	var logBuffer bytes.Buffer
	loggingTransport := &mcp.LoggingTransport{
		Transport: stdioTransport,
		Writer:    &logBuffer,
	}

	logger.Info("MCP server running via stdio")

	if err := server.Run(context.Background(), loggingTransport); err != nil {
		logger.Fatal("Server error", zap.Error(err), zap.String("mcp_logs", logBuffer.String()))
	}
}
