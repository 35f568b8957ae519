package entities

import (
	"time"

	"github.com/google/uuid"

	"worker-transcribe/constant"
)

// TranscribeJob tracks a queue-driven transcription run over media that was
// staged in object storage by the backend.
type TranscribeJob struct {
	ID         uuid.UUID          `json:"id"`
	UserID     uuid.UUID          `json:"user_id"`
	ObjectPath string             `json:"object_path"`
	Status     constant.JobStatus `json:"status"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

func (TranscribeJob) TableName() string {
	return "transcribe_jobs"
}
