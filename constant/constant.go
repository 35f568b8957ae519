package constant

type JobStatus string

const (
	JobStatusPending    JobStatus = "PENDING"
	JobStatusProcessing JobStatus = "PROCESSING"
	JobStatusFailed     JobStatus = "FAILED"
	JobStatusCompleted  JobStatus = "COMPLETED"
)

type Environment string

const (
	EnvironmentProduction Environment = "production"
	EnvironmentStaging    Environment = "staging"
	EnvironmentDevelop    Environment = "develop"
)

func (e Environment) String() string {
	return string(e)
}

const (
	// DefaultMaxInputBytes is the absolute ceiling for an uploaded file (1000 MB).
	DefaultMaxInputBytes int64 = 1e9

	// DefaultMaxChunkBytes is the per-call size limit of the transcription
	// service (24 MB, just under OpenAI's 25 MB ceiling).
	DefaultMaxChunkBytes int64 = 24e6

	MaxProjectNameLen = 25
	MaxDescriptionLen = 300
)
