package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"worker-transcribe/dto"
	"worker-transcribe/service"
)

type fakeUploadService struct {
	got       dto.UploadRequest
	projectID uuid.UUID
	err       error
}

func (f *fakeUploadService) Process(ctx context.Context, req dto.UploadRequest) (uuid.UUID, error) {
	f.got = req
	if f.err != nil {
		return uuid.Nil, f.err
	}
	return f.projectID, nil
}

func newUploadRequest(t *testing.T, userID string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "talk.mp3")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write([]byte("ID3 bytes")); err != nil {
		t.Fatal(err)
	}
	if err := mw.WriteField("projectname", "My Project"); err != nil {
		t.Fatal(err)
	}
	if err := mw.WriteField("description", "a description"); err != nil {
		t.Fatal(err)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if userID != "" {
		req.Header.Set("X-User-Id", userID)
	}
	return req
}

func serve(svc service.UploadService, req *http.Request) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/upload", NewUploadHandler(svc).Upload)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestUploadSuccess(t *testing.T) {
	userID := uuid.New()
	svc := &fakeUploadService{projectID: uuid.New()}

	w := serve(svc, newUploadRequest(t, userID.String()))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var result dto.UploadResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if result.ProjectID != svc.projectID {
		t.Errorf("project id = %s, want %s", result.ProjectID, svc.projectID)
	}

	if svc.got.UserID != userID {
		t.Errorf("user id = %s, want %s", svc.got.UserID, userID)
	}
	if svc.got.ProjectName != "My Project" || svc.got.FileName != "talk.mp3" {
		t.Errorf("request = %+v", svc.got)
	}
}

func TestUploadMissingUserID(t *testing.T) {
	svc := &fakeUploadService{}

	w := serve(svc, newUploadRequest(t, ""))

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestUploadErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", fmt.Errorf("%w: projectname missing", service.ErrValidation), http.StatusBadRequest},
		{"entitlement", service.ErrNoEntitlement, http.StatusPaymentRequired},
		{"internal", fmt.Errorf("persist project: db down"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeUploadService{err: tt.err}

			w := serve(svc, newUploadRequest(t, uuid.NewString()))

			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}
