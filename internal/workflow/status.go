package workflow

import (
	"context"
	"fmt"

	"contentops/internal/clustering"
	"contentops/internal/logging"
	"contentops/internal/store"
)

// StatusSummary represents lightweight engine diagnostics.
type StatusSummary struct {
	Database      store.DatabaseHealth
	DatabaseError string
	Oracle        string
	LLMConfigured bool
	Overdue       int
}

// Status reports database health, the active clustering oracle and the
// current overdue milestone count.
func (e *Engine) Status(ctx context.Context) StatusSummary {
	summary := StatusSummary{
		Oracle:        oracleName(e.oracle),
		LLMConfigured: e.cfg.LLMEnabled(),
	}
	health, err := e.store.CheckHealth(ctx)
	summary.Database = health
	if err != nil {
		summary.DatabaseError = err.Error()
		e.logger.Warn("database health check failed", logging.Error(err))
	}
	overdue, err := e.ListOverdue(ctx)
	if err != nil {
		e.logger.Warn("overdue milestone count unavailable", logging.Error(err))
	} else {
		summary.Overdue = len(overdue)
	}
	return summary
}

func oracleName(oracle clustering.Oracle) string {
	switch oracle.(type) {
	case *clustering.LLMOracle:
		return "llm"
	case *clustering.SimilarityOracle:
		return "similarity"
	case nil:
		return "none"
	default:
		return fmt.Sprintf("%T", oracle)
	}
}
