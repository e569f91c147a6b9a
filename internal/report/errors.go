package report

import (
	"fmt"

	"github.com/rohmanhakim/seo-auditor/internal/metadata"
	"github.com/rohmanhakim/seo-auditor/pkg/failure"
)

type ReportErrorCause string

const (
	ErrCauseDiskFull              ReportErrorCause = "disk is full"
	ErrCauseWriteFailure          ReportErrorCause = "write failed"
	ErrCauseHashComputationFailed ReportErrorCause = "hash computation failed"
	ErrCausePathError             ReportErrorCause = "path error"
	ErrCauseMarshalFailure        ReportErrorCause = "marshal failed"
)

type ReportError struct {
	Message   string
	Retryable bool
	Cause     ReportErrorCause
	Path      string
}

func (e *ReportError) Error() string {
	return fmt.Sprintf("report error: %s", e.Cause)
}

func (e *ReportError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

// mapReportErrorToMetadataCause maps report-local error semantics to the
// canonical metadata.ErrorCause table. Observational only; never used to
// derive control-flow decisions.
func mapReportErrorToMetadataCause(err *ReportError) metadata.ErrorCause {
	switch err.Cause {
	case ErrCauseDiskFull:
		return metadata.CauseStorageFailure
	case ErrCauseWriteFailure:
		return metadata.CauseStorageFailure
	case ErrCausePathError:
		return metadata.CauseStorageFailure
	case ErrCauseHashComputationFailed:
		return metadata.CauseInvariantViolation
	case ErrCauseMarshalFailure:
		return metadata.CauseInvariantViolation
	default:
		return metadata.CauseUnknown
	}
}
