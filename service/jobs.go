package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"worker-transcribe/config"
	"worker-transcribe/constant"
	"worker-transcribe/dto"
	"worker-transcribe/pkg/media"
	"worker-transcribe/pkg/storage"
	"worker-transcribe/pkg/transcribe"
	"worker-transcribe/repository"
)

// JobService runs the pipeline for media that the backend already staged in
// object storage and enqueued.
type JobService interface {
	ProcessJob(ctx context.Context, message dto.TranscribeJobMessage) error
}

type jobService struct {
	service
}

func NewJobService(
	repo repository.ProjectRepository,
	mediaTool media.Tool,
	transcriber transcribe.Client,
	store storage.BlobStore,
	cfg *config.Config,
) JobService {
	return &jobService{service: service{
		repo:        repo,
		media:       mediaTool,
		transcriber: transcriber,
		store:       store,
		cfg:         cfg,
	}}
}

func (s *jobService) ProcessJob(ctx context.Context, message dto.TranscribeJobMessage) (err error) {
	zerolog.Ctx(ctx).Info().Str("job_id", message.JobID.String()).Msg("processing transcription job")

	job, err := s.repo.FindJobByID(ctx, message.JobID)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to find job by id")
		return err
	}

	if job.Status != constant.JobStatusPending {
		zerolog.Ctx(ctx).Info().Str("job_id", message.JobID.String()).Msg("job is not pending")
		return nil
	}

	if err := s.repo.UpdateJobStatus(ctx, constant.JobStatusProcessing, message.JobID); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to update job status")
		return err
	}

	defer func() {
		if err == nil {
			return
		}
		if isNonRetryable(err) {
			if updateErr := s.repo.UpdateJobStatus(ctx, constant.JobStatusFailed, message.JobID); updateErr != nil {
				zerolog.Ctx(ctx).Error().Err(updateErr).Msg("failed to update job status")
			}
			err = nil
		} else {
			if updateErr := s.repo.UpdateJobStatus(ctx, constant.JobStatusPending, message.JobID); updateErr != nil {
				zerolog.Ctx(ctx).Error().Err(updateErr).Msg("failed to update job status")
			}
		}
	}()

	projectName, description, err := validateFields(message.ProjectName, message.Description)
	if err != nil {
		return err
	}

	staging, err := NewStagingDir(s.cfg.Upload.StagingRoot)
	if err != nil {
		return err
	}
	defer staging.Destroy(ctx)

	inputPath := staging.InputPath(fileExt(message.ObjectPath))
	zerolog.Ctx(ctx).Info().Str("input_file", inputPath).Msg("downloading input file")
	if err = s.store.Download(ctx, message.ObjectPath, inputPath); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to download file")
		return err
	}

	projectID, err := s.run(ctx, staging, inputPath, message.UserID, projectName, description)
	if err != nil {
		return err
	}

	if err = s.repo.UpdateJobStatus(ctx, constant.JobStatusCompleted, message.JobID); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to update job status")
		return err
	}

	zerolog.Ctx(ctx).Info().
		Str("job_id", message.JobID.String()).
		Str("project_id", projectID.String()).
		Msg("job completed")

	return nil
}

// isNonRetryable reports whether redelivering the job could possibly
// succeed. Bad input files, validation and entitlement failures stay failed;
// transient transcription, storage and database errors go back to pending.
func isNonRetryable(err error) bool {
	return errors.Is(err, ErrNonRetryable) ||
		errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrNoEntitlement) ||
		errors.Is(err, media.ErrProbeFailed) ||
		errors.Is(err, media.ErrTranscodeFailed) ||
		errors.Is(err, media.ErrSplitFailed) ||
		errors.Is(err, media.ErrInvalidDuration) ||
		errors.Is(err, transcribe.ErrInvalidAPIKey)
}
