package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"worker-transcribe/config"
	"worker-transcribe/dto"
	"worker-transcribe/entities"
	"worker-transcribe/pkg/media"
	"worker-transcribe/pkg/storage"
	"worker-transcribe/pkg/transcribe"
	"worker-transcribe/repository"
)

// UploadService runs the upload-and-transcription pipeline for one request:
// stage, probe, plan, transcribe (per chunk if needed), assemble, persist,
// upload. The staging directory is destroyed on every exit path.
type UploadService interface {
	Process(ctx context.Context, req dto.UploadRequest) (uuid.UUID, error)
}

type service struct {
	repo        repository.ProjectRepository
	media       media.Tool
	transcriber transcribe.Client
	store       storage.BlobStore
	cfg         *config.Config
}

func NewService(
	repo repository.ProjectRepository,
	mediaTool media.Tool,
	transcriber transcribe.Client,
	store storage.BlobStore,
	cfg *config.Config,
) UploadService {
	return &service{
		repo:        repo,
		media:       mediaTool,
		transcriber: transcriber,
		store:       store,
		cfg:         cfg,
	}
}

// mediaDescriptor holds the measured facts about the staged input. Duration
// comes from the probe, never from the client.
type mediaDescriptor struct {
	duration float64
	mimeType string
	size     int64
}

func (s *service) Process(ctx context.Context, req dto.UploadRequest) (uuid.UUID, error) {
	projectName, description, err := validateRequest(req, s.cfg.Upload.MaxInputBytes)
	if err != nil {
		return uuid.Nil, err
	}

	staging, err := NewStagingDir(s.cfg.Upload.StagingRoot)
	if err != nil {
		return uuid.Nil, err
	}
	defer staging.Destroy(ctx)

	inputPath, err := staging.StageReader(req.File, fileExt(req.FileName))
	if err != nil {
		return uuid.Nil, err
	}

	return s.run(ctx, staging, inputPath, req.UserID, projectName, description)
}

// run executes the pipeline over an already staged input file. Both the
// synchronous upload path and the queue path end up here.
func (s *service) run(ctx context.Context, staging *StagingDir, inputPath string, userID uuid.UUID, projectName, description string) (uuid.UUID, error) {
	desc, err := s.describe(ctx, inputPath)
	if err != nil {
		return uuid.Nil, err
	}
	zerolog.Ctx(ctx).Info().
		Float64("duration", desc.duration).
		Int64("size", desc.size).
		Str("content_type", desc.mimeType).
		Msg("input probed")

	isFree, apiKey, err := s.entitlement(ctx, userID, desc.duration)
	if err != nil {
		return uuid.Nil, err
	}

	plan, err := media.Plan(desc.size, desc.duration, s.cfg.Upload.MaxChunkBytes)
	if err != nil {
		return uuid.Nil, err
	}

	var transcript transcribe.Transcript
	if !plan.NeedsSplit {
		transcript, err = s.transcribeSingle(ctx, staging, inputPath, desc, apiKey)
	} else {
		transcript, err = s.transcribeChunks(ctx, staging, inputPath, plan.ChunkDuration, apiKey)
	}
	if err != nil {
		return uuid.Nil, err
	}

	serialized, err := json.Marshal(transcript)
	if err != nil {
		return uuid.Nil, fmt.Errorf("serialize transcript: %w", err)
	}

	// The stored file name must not leak the user-supplied name.
	storedName := strconv.FormatInt(time.Now().UnixMilli(), 10) + fileExt(inputPath)

	projectID, err := s.repo.CreateProject(ctx, &entities.Project{
		UserID:      userID,
		ProjectName: projectName,
		Description: description,
		FileName:    storedName,
		Transcript:  string(serialized),
		IsFree:      isFree,
		Duration:    desc.duration,
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("persist project: %w", err)
	}

	// The transcript is durably saved at this point. A failed media upload
	// is reported through logs only, the run still succeeds.
	objectKey := fmt.Sprintf("%s/%s/%s", userID, projectID, storedName)
	if err := s.store.Upload(ctx, inputPath, objectKey, desc.mimeType); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).
			Str("project_id", projectID.String()).
			Str("object_key", objectKey).
			Msg("failed to upload source media")
	}

	return projectID, nil
}

func (s *service) describe(ctx context.Context, inputPath string) (mediaDescriptor, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return mediaDescriptor{}, fmt.Errorf("stat input file: %w", err)
	}

	mtype, err := mimetype.DetectFile(inputPath)
	if err != nil {
		return mediaDescriptor{}, fmt.Errorf("detect content type: %w", err)
	}

	duration, err := s.media.Probe(ctx, inputPath)
	if err != nil {
		return mediaDescriptor{}, err
	}

	return mediaDescriptor{
		duration: duration,
		mimeType: mtype.String(),
		size:     info.Size(),
	}, nil
}

// entitlement decides which API key covers the run. Users with enough free
// credits for the measured duration use the system key; everyone else needs
// a key of their own.
func (s *service) entitlement(ctx context.Context, userID uuid.UUID, duration float64) (bool, string, error) {
	credits, err := s.repo.GetCredits(ctx, userID)
	if err != nil {
		return false, "", fmt.Errorf("get credits: %w", err)
	}

	if credits-duration > 0 {
		if s.cfg.Upload.SystemAPIKey == "" {
			return false, "", fmt.Errorf("system transcription api key not configured")
		}
		return true, s.cfg.Upload.SystemAPIKey, nil
	}

	apiKey, err := s.repo.GetAPIKey(ctx, userID)
	if err != nil {
		return false, "", fmt.Errorf("get api key: %w", err)
	}
	if apiKey == "" {
		return false, "", ErrNoEntitlement
	}
	return false, apiKey, nil
}

// transcribeSingle handles inputs under the per-call ceiling. Non-audio
// containers are transcoded to the canonical audio format first.
func (s *service) transcribeSingle(ctx context.Context, staging *StagingDir, inputPath string, desc mediaDescriptor, apiKey string) (transcribe.Transcript, error) {
	audioPath := inputPath
	if !strings.HasPrefix(desc.mimeType, "audio/") {
		audioPath = staging.AudioPath()
		if err := s.media.TranscodeToAudio(ctx, inputPath, audioPath); err != nil {
			return transcribe.Transcript{}, err
		}
	}

	return s.transcriber.Transcribe(ctx, audioPath, apiKey)
}

// transcribeChunks splits the input and submits the chunks sequentially, in
// order. The assembler's timestamp re-basing depends on that order.
func (s *service) transcribeChunks(ctx context.Context, staging *StagingDir, inputPath string, chunkDuration float64, apiKey string) (transcribe.Transcript, error) {
	chunksDir, err := staging.ChunksDir()
	if err != nil {
		return transcribe.Transcript{}, err
	}

	pattern := filepath.Join(chunksDir, "input-%03d"+fileExt(inputPath))
	if err := s.media.SplitByDuration(ctx, inputPath, pattern, chunkDuration); err != nil {
		return transcribe.Transcript{}, err
	}

	chunks, err := listChunks(chunksDir, s.cfg.Upload.MaxChunkBytes)
	if err != nil {
		return transcribe.Transcript{}, err
	}
	zerolog.Ctx(ctx).Info().Int("chunks", len(chunks)).Msg("input split into chunks")

	parts := make([]transcribe.Transcript, 0, len(chunks))
	for _, chunk := range chunks {
		part, err := s.transcriber.Transcribe(ctx, chunk, apiKey)
		if err != nil {
			return transcribe.Transcript{}, err
		}
		parts = append(parts, part)
	}

	return transcribe.Assemble(parts), nil
}

// listChunks returns the chunk files in lexicographic order, which matches
// the zero-padded emission order of the split, and verifies every chunk is
// under the per-call ceiling.
func listChunks(chunksDir string, maxChunkBytes int64) ([]string, error) {
	entries, err := os.ReadDir(chunksDir)
	if err != nil {
		return nil, fmt.Errorf("%w: list chunks: %v", media.ErrSplitFailed, err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: no chunks produced", media.ErrSplitFailed)
	}

	chunks := make([]string, 0, len(entries))
	for _, entry := range entries {
		path := filepath.Join(chunksDir, entry.Name())
		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("%w: stat chunk: %v", media.ErrSplitFailed, err)
		}
		if info.Size() > maxChunkBytes {
			return nil, fmt.Errorf("%w: chunk %s exceeds %d bytes", media.ErrSplitFailed, entry.Name(), maxChunkBytes)
		}
		chunks = append(chunks, path)
	}
	sort.Strings(chunks)

	return chunks, nil
}

func fileExt(name string) string {
	return strings.ToLower(filepath.Ext(name))
}
