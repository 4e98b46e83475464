package jobs

import (
	"context"
	"time"

	"github.com/contentloop/repurpose/internal/models"
	"github.com/uptrace/bun"
)

const defaultListLimit = 20

type Repository interface {
	InitializeDatabase(ctx context.Context) error
	Insert(ctx context.Context, job *models.Job) error
	GetByID(ctx context.Context, jobID, accountID string) (*models.Job, error)
	ListByAccount(ctx context.Context, accountID string, limit int) ([]*models.Job, error)
}

type JobRepository struct {
	db *bun.DB
}

func NewJobRepository(db *bun.DB) *JobRepository {
	return &JobRepository{db: db}
}

func (r *JobRepository) InitializeDatabase(ctx context.Context) error {
	_, err := r.db.NewCreateTable().
		Model((*models.JobDB)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return err
	}

	_, err = r.db.NewCreateIndex().
		Model((*models.JobDB)(nil)).
		Index("idx_jobs_account_id").
		Column("account_id").
		IfNotExists().
		Exec(ctx)
	return err
}

func (r *JobRepository) Insert(ctx context.Context, job *models.Job) error {
	jobDB := models.JobFromDomain(job)
	jobDB.CreatedAt = time.Now()
	_, err := r.db.NewInsert().Model(jobDB).Exec(ctx)
	if err != nil {
		return err
	}
	job.CreatedAt = jobDB.CreatedAt
	return nil
}

// GetByID is owner-scoped: a job is only visible to the account it belongs to.
func (r *JobRepository) GetByID(ctx context.Context, jobID, accountID string) (*models.Job, error) {
	jobDB := new(models.JobDB)
	err := r.db.NewSelect().
		Model(jobDB).
		Where("id = ?", jobID).
		Where("account_id = ?", accountID).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return jobDB.ToJob(), nil
}

func (r *JobRepository) ListByAccount(ctx context.Context, accountID string, limit int) ([]*models.Job, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	var jobDBs []*models.JobDB
	err := r.db.NewSelect().
		Model(&jobDBs).
		Where("account_id = ?", accountID).
		Order("created_at DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*models.Job, 0, len(jobDBs))
	for _, j := range jobDBs {
		out = append(out, j.ToJob())
	}
	return out, nil
}
