package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"worker-transcribe/constant"
	"worker-transcribe/entities"
)

// ProjectRepository is the persistence collaborator of the pipeline: the
// project record store plus the per-user credit/API-key state.
type ProjectRepository interface {
	Transaction(ctx context.Context, callback func(ctx context.Context) error, opts ...*sql.TxOptions) error
	GetDB() *gorm.DB
	CreateProject(ctx context.Context, project *entities.Project) (uuid.UUID, error)
	GetCredits(ctx context.Context, userID uuid.UUID) (float64, error)
	GetAPIKey(ctx context.Context, userID uuid.UUID) (string, error)
	FindJobByID(ctx context.Context, id uuid.UUID) (*entities.TranscribeJob, error)
	UpdateJobStatus(ctx context.Context, status constant.JobStatus, id uuid.UUID) error
}

type repo struct {
	db *gorm.DB
}

func NewRepo(db *sql.DB) ProjectRepository {
	gormDB, _ := gorm.Open(postgres.New(postgres.Config{
		Conn: db}),
		&gorm.Config{
			Logger: logger.Default.LogMode(logger.Info),
		},
	)
	return &repo{
		db: gormDB,
	}
}

func (r *repo) GetDB() *gorm.DB {
	return r.db
}

func (r *repo) Transaction(ctx context.Context, callback func(ctx context.Context) error, opts ...*sql.TxOptions) error {
	return r.GetDB().Transaction(func(tx *gorm.DB) error {
		err := callback(ctx)
		if err != nil {
			return err
		}
		return nil
	}, opts...)
}

func (r *repo) CreateProject(ctx context.Context, project *entities.Project) (uuid.UUID, error) {
	if project.ID == uuid.Nil {
		project.ID = uuid.New()
	}
	err := r.GetDB().WithContext(ctx).Create(project).Error
	if err != nil {
		return uuid.Nil, err
	}
	return project.ID, nil
}

func (r *repo) GetCredits(ctx context.Context, userID uuid.UUID) (float64, error) {
	balance := &entities.Balance{}
	err := r.GetDB().WithContext(ctx).First(balance, "id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return balance.Credits, nil
}

// GetAPIKey returns the user's stored transcription key, or an empty string
// when none is set.
func (r *repo) GetAPIKey(ctx context.Context, userID uuid.UUID) (string, error) {
	key := &entities.UserKey{}
	err := r.GetDB().WithContext(ctx).First(key, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return key.APIKey, nil
}

func (r *repo) FindJobByID(ctx context.Context, id uuid.UUID) (*entities.TranscribeJob, error) {
	job := &entities.TranscribeJob{}
	err := r.GetDB().WithContext(ctx).First(job, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return job, nil
}

func (r *repo) UpdateJobStatus(ctx context.Context, status constant.JobStatus, id uuid.UUID) error {
	job := &entities.TranscribeJob{}
	err := r.GetDB().WithContext(ctx).First(job, "id = ?", id).Error
	if err != nil {
		return err
	}
	job.Status = status
	err = r.GetDB().WithContext(ctx).Save(job).Error
	if err != nil {
		return err
	}
	return nil
}
