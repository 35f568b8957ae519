package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"worker-transcribe/dto"
	"worker-transcribe/pkg/transcribe"
	"worker-transcribe/service"
)

// UploadHandler serves the synchronous upload endpoint. Authentication is
// done upstream, the verified user id arrives in the X-User-Id header.
type UploadHandler struct {
	svc service.UploadService
}

func NewUploadHandler(svc service.UploadService) *UploadHandler {
	return &UploadHandler{svc: svc}
}

func (h *UploadHandler) Upload(c *gin.Context) {
	userID, err := uuid.Parse(c.GetHeader("X-User-Id"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid user id"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file submitted"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read uploaded file"})
		return
	}
	defer file.Close()

	projectID, err := h.svc.Process(c.Request.Context(), dto.UploadRequest{
		File:        file,
		FileName:    fileHeader.Filename,
		FileSize:    fileHeader.Size,
		ProjectName: c.PostForm("projectname"),
		Description: c.PostForm("description"),
		UserID:      userID,
	})
	if err != nil {
		status := statusForError(err)
		if status == http.StatusInternalServerError {
			zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg("upload failed")
			c.JSON(status, gin.H{"error": "something went wrong"})
			return
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.UploadResult{ProjectID: projectID})
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNoEntitlement):
		return http.StatusPaymentRequired
	case errors.Is(err, transcribe.ErrInvalidAPIKey):
		return http.StatusPaymentRequired
	default:
		return http.StatusInternalServerError
	}
}
