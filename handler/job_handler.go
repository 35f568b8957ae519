package handler

import (
	"context"
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"worker-transcribe/dto"
	"worker-transcribe/service"
)

type ServiceDependencies struct {
	JobService service.JobService
}

func TranscribeJobHandler(ctx context.Context, msg amqp.Delivery, deps ServiceDependencies) error {
	var job dto.TranscribeJobMessage
	if err := json.Unmarshal(msg.Body, &job); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to unmarshal transcription job message")
		return err
	}

	zerolog.Ctx(ctx).Info().
		Str("job_id", job.JobID.String()).
		Str("object_path", job.ObjectPath).
		Msg("received transcription job message")

	err := deps.JobService.ProcessJob(ctx, job)
	if err != nil {
		return err
	}

	return nil
}
