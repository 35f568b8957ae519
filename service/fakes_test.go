package service

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"worker-transcribe/constant"
	"worker-transcribe/entities"
	"worker-transcribe/pkg/transcribe"
)

type fakeRepo struct {
	credits       map[uuid.UUID]float64
	keys          map[uuid.UUID]string
	jobs          map[uuid.UUID]*entities.TranscribeJob
	created       []*entities.Project
	createErr     error
	statusUpdates []constant.JobStatus
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		credits: map[uuid.UUID]float64{},
		keys:    map[uuid.UUID]string{},
		jobs:    map[uuid.UUID]*entities.TranscribeJob{},
	}
}

func (r *fakeRepo) Transaction(ctx context.Context, callback func(ctx context.Context) error, opts ...*sql.TxOptions) error {
	return callback(ctx)
}

func (r *fakeRepo) GetDB() *gorm.DB { return nil }

func (r *fakeRepo) CreateProject(ctx context.Context, project *entities.Project) (uuid.UUID, error) {
	if r.createErr != nil {
		return uuid.Nil, r.createErr
	}
	project.ID = uuid.New()
	r.created = append(r.created, project)
	return project.ID, nil
}

func (r *fakeRepo) GetCredits(ctx context.Context, userID uuid.UUID) (float64, error) {
	return r.credits[userID], nil
}

func (r *fakeRepo) GetAPIKey(ctx context.Context, userID uuid.UUID) (string, error) {
	return r.keys[userID], nil
}

func (r *fakeRepo) FindJobByID(ctx context.Context, id uuid.UUID) (*entities.TranscribeJob, error) {
	job, ok := r.jobs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return job, nil
}

func (r *fakeRepo) UpdateJobStatus(ctx context.Context, status constant.JobStatus, id uuid.UUID) error {
	r.statusUpdates = append(r.statusUpdates, status)
	if job, ok := r.jobs[id]; ok {
		job.Status = status
	}
	return nil
}

// fakeTool fakes the media binaries. SplitByDuration materializes the
// configured chunk contents under the output pattern.
type fakeTool struct {
	duration      float64
	probeErr      error
	transcodeErr  error
	splitErr      error
	transcodes    [][2]string
	splits        []float64
	chunkContents [][]byte
}

func (f *fakeTool) Probe(ctx context.Context, path string) (float64, error) {
	if f.probeErr != nil {
		return 0, f.probeErr
	}
	return f.duration, nil
}

func (f *fakeTool) TranscodeToAudio(ctx context.Context, inputPath, outputPath string) error {
	if f.transcodeErr != nil {
		return f.transcodeErr
	}
	f.transcodes = append(f.transcodes, [2]string{inputPath, outputPath})
	return os.WriteFile(outputPath, []byte("ID3 transcoded"), 0o644)
}

func (f *fakeTool) SplitByDuration(ctx context.Context, inputPath, outputPattern string, chunkSeconds float64) error {
	if f.splitErr != nil {
		return f.splitErr
	}
	f.splits = append(f.splits, chunkSeconds)
	for i, content := range f.chunkContents {
		if err := os.WriteFile(fmt.Sprintf(outputPattern, i), content, 0o644); err != nil {
			return err
		}
	}
	return nil
}

type fakeTranscriber struct {
	paths   []string
	keys    []string
	results []transcribe.Transcript
	failAt  int // 1-based call index to fail at, 0 means never
	err     error
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, filePath, apiKey string) (transcribe.Transcript, error) {
	f.paths = append(f.paths, filePath)
	f.keys = append(f.keys, apiKey)
	call := len(f.paths)
	if f.failAt != 0 && call == f.failAt {
		return transcribe.Transcript{}, f.err
	}
	if call <= len(f.results) {
		return f.results[call-1], nil
	}
	return transcribe.Transcript{Text: "text", Duration: 1}, nil
}

type fakeStore struct {
	uploads         []string
	uploadErr       error
	downloadErr     error
	downloadContent []byte
}

func (f *fakeStore) Upload(ctx context.Context, localPath, objectKey, contentType string) error {
	if f.uploadErr != nil {
		return f.uploadErr
	}
	f.uploads = append(f.uploads, objectKey)
	return nil
}

func (f *fakeStore) Download(ctx context.Context, objectKey, localPath string) error {
	if f.downloadErr != nil {
		return f.downloadErr
	}
	return os.WriteFile(localPath, f.downloadContent, 0o644)
}
