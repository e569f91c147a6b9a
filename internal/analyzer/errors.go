package analyzer

import (
	"fmt"

	"github.com/rohmanhakim/seo-auditor/internal/metadata"
	"github.com/rohmanhakim/seo-auditor/pkg/failure"
)

type AnalyzerErrorCause string

const (
	ErrCauseUnparseableHTML AnalyzerErrorCause = "html cannot be parsed"
	ErrCauseStructuredData  AnalyzerErrorCause = "structured data parse failed"
)

// AnalyzerError reports a failure encountered while analyzing one page.
// Per the analyzer's best-effort contract, an AnalyzerError never aborts
// Analyze: it is recorded for observability and the affected fields are
// left blank or zero in the returned record.
type AnalyzerError struct {
	Message string
	Cause   AnalyzerErrorCause
}

func (e *AnalyzerError) Error() string {
	return fmt.Sprintf("analyzer error: %s: %s", e.Cause, e.Message)
}

// Severity is always Recoverable: no analysis failure escalates past the
// page it occurred on.
func (e *AnalyzerError) Severity() failure.Severity {
	return failure.SeverityRecoverable
}

// mapAnalyzerErrorToMetadataCause maps analyzer-local error semantics to
// the canonical metadata.ErrorCause table.
//
// This mapping is observational only and MUST NOT be used to derive
// control-flow decisions.
func mapAnalyzerErrorToMetadataCause(err *AnalyzerError) metadata.ErrorCause {
	switch err.Cause {
	case ErrCauseUnparseableHTML, ErrCauseStructuredData:
		return metadata.CauseContentInvalid
	default:
		return metadata.CauseUnknown
	}
}
