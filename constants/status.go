package constants

// JobStatus mirrors the Textract analysis job states the pipeline cares about.
type JobStatus string

// Stable values (store these exact strings in DB).
const (
	JobStatusInProgress     JobStatus = "IN_PROGRESS"
	JobStatusSucceeded      JobStatus = "SUCCEEDED"
	JobStatusPartialSuccess JobStatus = "PARTIAL_SUCCESS"
	JobStatusFailed         JobStatus = "FAILED"
	JobStatusError          JobStatus = "ERROR" // local failure before or after the remote job
	JobStatusSkipped        JobStatus = "SKIPPED"
)

// Terminal reports whether a remote job status will not change anymore.
func Terminal(s JobStatus) bool {
	switch s {
	case JobStatusSucceeded, JobStatusPartialSuccess, JobStatusFailed:
		return true
	}
	return false
}

// Usable reports whether a terminal status produced results worth parsing.
func Usable(s JobStatus) bool {
	return s == JobStatusSucceeded || s == JobStatusPartialSuccess
}
