package core

// JobState is the lifecycle state of one end-to-end research job. Job
// persistence and scheduling belong to the external job system; this package
// only defines the states and progress payloads the pipeline emits.
type JobState int

const (
	// JobPending means the job has been accepted but work has not started.
	JobPending JobState = iota + 1
	// JobProgress means the job is running and emitting progress updates.
	JobProgress
	// JobSuccess means the job completed and an artifact is available.
	JobSuccess
	// JobFailure means the job aborted with a fatal error.
	JobFailure
)

// String returns the job system's wire name for the state.
func (s JobState) String() string {
	switch s {
	case JobPending:
		return "PENDING"
	case JobProgress:
		return "PROGRESS"
	case JobSuccess:
		return "SUCCESS"
	case JobFailure:
		return "FAILURE"
	default:
		return "UNKNOWN"
	}
}

// Progress is one progress update emitted during a job. Current and Total
// count enrichment units; pass-through records are excluded from Total.
type Progress struct {
	State   JobState
	Status  string
	Current int
	Total   int
	Percent int
}

// ProgressFunc receives progress updates for a single job. Updates for one
// job are delivered serially; implementations need not be re-entrant.
type ProgressFunc func(Progress)
