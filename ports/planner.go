package ports

import (
	"context"

	"github.com/yapweijun1996/CSV-Data-Analysis-Agent-sub000/domain/plan"
	"github.com/yapweijun1996/CSV-Data-Analysis-Agent-sub000/domain/table"
)

// StagePlanner authors a free-text cleaning plan for a snapshot. The
// core never calls a planner itself; callers inject one and feed its
// plan to the pipeline, which only consumes extracted hints.
type StagePlanner interface {
	PlanStages(ctx context.Context, snapshot table.Snapshot) (plan.StagePlan, error)
}

// AnalysisPlanner authors declarative chart/analysis plans from the
// column profiles of a cleaned table.
type AnalysisPlanner interface {
	PlanAnalysis(ctx context.Context, profiles []table.ColumnProfile) ([]plan.AnalysisPlan, error)
}
