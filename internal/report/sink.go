package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rohmanhakim/seo-auditor/internal/analyzer"
	"github.com/rohmanhakim/seo-auditor/internal/issues"
	"github.com/rohmanhakim/seo-auditor/internal/metadata"
	"github.com/rohmanhakim/seo-auditor/pkg/failure"
	"github.com/rohmanhakim/seo-auditor/pkg/fileutil"
	"github.com/rohmanhakim/seo-auditor/pkg/hashutil"
)

/*
Responsibilities
- Persist a finished crawl run's records, issues, and summary
- Ensure deterministic, idempotent filenames
- Never run during a crawl: this is a host-side opt-in, not orchestrator
  infrastructure

Output Characteristics
- One directory per run, named by a content hash of the seed URL and the
  caller-supplied start time
- One NDJSON file per artifact kind
- Overwrite-safe reruns
*/

// Sink persists a finished run's records, issues, and summary under
// outputDir. startedAt is supplied by the caller (never read from the
// system clock here) so that writing the same run twice is idempotent.
type Sink interface {
	Write(
		outputDir string,
		seedURL string,
		startedAt time.Time,
		records []analyzer.SEORecord,
		allIssues []issues.Issue,
		summary issues.Summary,
	) (WriteResult, failure.ClassifiedError)
}

type LocalSink struct {
	metadataSink metadata.MetadataSink
}

func NewLocalSink(metadataSink metadata.MetadataSink) LocalSink {
	return LocalSink{metadataSink: metadataSink}
}

func (s *LocalSink) Write(
	outputDir string,
	seedURL string,
	startedAt time.Time,
	records []analyzer.SEORecord,
	allIssues []issues.Issue,
	summary issues.Summary,
) (WriteResult, failure.ClassifiedError) {
	writeResult, err := write(outputDir, seedURL, startedAt, records, allIssues, summary)
	if err != nil {
		var reportError *ReportError
		errors.As(err, &reportError)
		s.metadataSink.RecordError(
			time.Now(),
			"report",
			"LocalSink.Write",
			mapReportErrorToMetadataCause(reportError),
			err.Error(),
			[]metadata.Attribute{
				metadata.NewAttr(metadata.AttrURL, seedURL),
				metadata.NewAttr(metadata.AttrWritePath, reportError.Path),
			},
		)
		return WriteResult{}, reportError
	}

	for kind, path := range map[metadata.ArtifactKind]string{
		metadata.ArtifactRecords: writeResult.RecordsPath(),
		metadata.ArtifactIssues:  writeResult.IssuesPath(),
		metadata.ArtifactSummary: writeResult.SummaryPath(),
	} {
		s.metadataSink.RecordArtifact(kind, path, []metadata.Attribute{
			metadata.NewAttr(metadata.AttrWritePath, path),
			metadata.NewAttr(metadata.AttrURL, seedURL),
			metadata.NewAttr(metadata.AttrField, writeResult.RunHash()),
		})
	}
	return writeResult, nil
}

func write(
	outputDir string,
	seedURL string,
	startedAt time.Time,
	records []analyzer.SEORecord,
	allIssues []issues.Issue,
	summary issues.Summary,
) (WriteResult, failure.ClassifiedError) {
	identity := seedURL + "|" + startedAt.UTC().Format(time.RFC3339Nano)
	runHashFull, err := hashutil.HashBytes([]byte(identity), hashutil.HashAlgoBLAKE3)
	if err != nil {
		return WriteResult{}, &ReportError{
			Message:   err.Error(),
			Retryable: false,
			Cause:     ErrCauseHashComputationFailed,
		}
	}
	runHash := runHashFull[:12]
	runDir := filepath.Join(outputDir, runHash)

	if classified := fileutil.EnsureDir(runDir); classified != nil {
		cause := ErrCauseWriteFailure
		retryable := false
		var fileErr *fileutil.FileError
		if errors.As(classified, &fileErr) && fileErr.Cause == fileutil.ErrCausePathError {
			cause = ErrCausePathError
			retryable = true
		}
		return WriteResult{}, &ReportError{
			Message:   classified.Error(),
			Retryable: retryable,
			Cause:     cause,
			Path:      runDir,
		}
	}

	recordsPath := filepath.Join(runDir, "records.ndjson")
	issuesPath := filepath.Join(runDir, "issues.ndjson")
	summaryPath := filepath.Join(runDir, "summary.json")

	if err := writeNDJSON(recordsPath, len(records), func(i int) (any, error) {
		return records[i], nil
	}); err != nil {
		return WriteResult{}, err
	}
	if err := writeNDJSON(issuesPath, len(allIssues), func(i int) (any, error) {
		return allIssues[i], nil
	}); err != nil {
		return WriteResult{}, err
	}
	if err := writeJSON(summaryPath, summary); err != nil {
		return WriteResult{}, err
	}

	return NewWriteResult(runHash, recordsPath, issuesPath, summaryPath), nil
}

// writeNDJSON marshals n elements (produced by at(i)) one per line and
// writes the result atomically-enough for a single-writer crawl tool
// (plain os.WriteFile; reruns overwrite in place).
func writeNDJSON(path string, n int, at func(i int) (any, error)) *ReportError {
	var buf bytes.Buffer
	for i := 0; i < n; i++ {
		v, err := at(i)
		if err != nil {
			return &ReportError{Message: err.Error(), Retryable: false, Cause: ErrCauseMarshalFailure, Path: path}
		}
		line, err := json.Marshal(v)
		if err != nil {
			return &ReportError{Message: err.Error(), Retryable: false, Cause: ErrCauseMarshalFailure, Path: path}
		}
		buf.Write(line)
		buf.WriteByte('\n')
	}
	return writeFile(path, buf.Bytes())
}

func writeJSON(path string, v any) *ReportError {
	line, err := json.Marshal(v)
	if err != nil {
		return &ReportError{Message: err.Error(), Retryable: false, Cause: ErrCauseMarshalFailure, Path: path}
	}
	return writeFile(path, append(line, '\n'))
}

func writeFile(path string, content []byte) *ReportError {
	if err := os.WriteFile(path, content, 0644); err != nil {
		cause := ErrCauseWriteFailure
		retryable := false
		if errors.Is(err, syscall.ENOSPC) {
			cause = ErrCauseDiskFull
			retryable = true
		}
		return &ReportError{
			Message:   fmt.Sprintf("%v", err),
			Retryable: retryable,
			Cause:     cause,
			Path:      path,
		}
	}
	return nil
}
