package dto

import (
	"io"

	"github.com/google/uuid"
)

// UploadRequest is the transient input of one orchestrator run. It is
// consumed exactly once and never persisted as-is.
type UploadRequest struct {
	File        io.Reader
	FileName    string
	FileSize    int64
	ProjectName string
	Description string
	UserID      uuid.UUID
}

type UploadResult struct {
	ProjectID uuid.UUID `json:"projectId"`
}

// TranscribeJobMessage is the queue payload for media already staged in
// object storage by the backend.
type TranscribeJobMessage struct {
	JobID       uuid.UUID `json:"jobId"`
	ObjectPath  string    `json:"objectPath"`
	UserID      uuid.UUID `json:"userId"`
	ProjectName string    `json:"projectName"`
	Description string    `json:"description"`
}
