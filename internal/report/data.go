package report

// Persistence

// WriteResult is the outcome of persisting one finished crawl run: the
// deterministic run identity (derived from the seed URL and the caller's
// supplied start time) plus the three artifact paths written under it.
type WriteResult struct {
	runHash     string
	recordsPath string
	issuesPath  string
	summaryPath string
}

func NewWriteResult(runHash, recordsPath, issuesPath, summaryPath string) WriteResult {
	return WriteResult{
		runHash:     runHash,
		recordsPath: recordsPath,
		issuesPath:  issuesPath,
		summaryPath: summaryPath,
	}
}

func (w *WriteResult) RunHash() string {
	return w.runHash
}

func (w *WriteResult) RecordsPath() string {
	return w.recordsPath
}

func (w *WriteResult) IssuesPath() string {
	return w.issuesPath
}

func (w *WriteResult) SummaryPath() string {
	return w.summaryPath
}
