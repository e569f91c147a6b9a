package orchestrator

import (
	"fmt"

	"github.com/rohmanhakim/seo-auditor/pkg/failure"
)

type OrchestratorErrorCause string

const (
	ErrCauseContextCanceled OrchestratorErrorCause = "context canceled before crawl start"
)

// OrchestratorError represents a fatal session setup failure: one that
// happens before the frontier pop loop starts and for which there is no
// record to append and continue from.
type OrchestratorError struct {
	Message string
	Cause   OrchestratorErrorCause
}

func (e *OrchestratorError) Error() string {
	return fmt.Sprintf("orchestrator error: %s: %s", e.Cause, e.Message)
}

func (e *OrchestratorError) Severity() failure.Severity {
	return failure.SeverityFatal
}
