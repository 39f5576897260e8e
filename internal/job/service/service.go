package service

import (
	"context"
	"errors"

	"github.com/jobboard/jobs-api/internal/events"
	"github.com/jobboard/jobs-api/internal/job"
	"github.com/jobboard/jobs-api/internal/job/repository"
	"github.com/jobboard/jobs-api/pkg/logger"
	"github.com/jobboard/jobs-api/pkg/metrics"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound = repository.ErrNotFound
)

// Repository is the persistence port. Implementations assign ids and
// timestamps and return ErrNotFound for unknown ids.
type Repository interface {
	Create(ctx context.Context, j *job.Job) (*job.Job, error)
	Get(ctx context.Context, id string) (*job.Job, error)
	List(ctx context.Context) ([]*job.Job, error)
	Update(ctx context.Context, j *job.Job) (*job.Job, error)
	Delete(ctx context.Context, id string) (*job.Job, error)
	Ping(ctx context.Context) error
}

// Service defines the job operations used by the handler layer.
type Service interface {
	List(ctx context.Context) ([]*job.Job, error)
	Get(ctx context.Context, id string) (*job.Job, error)
	Create(ctx context.Context, p job.Patch) (*job.Job, error)
	Update(ctx context.Context, id string, p job.Patch) (*job.Job, error)
	Delete(ctx context.Context, id string) (*job.Job, error)
	Ping(ctx context.Context) error
}

// NewMemoryService returns a Service backed by the in-memory repository.
func NewMemoryService() Service {
	return New(repository.NewMemoryRepo(), nil)
}

// NewMongoService returns a Service backed by a MongoDB collection.
// Caller is responsible for creating the collection (and client) and passing it in.
func NewMongoService(col *mongo.Collection, pub events.Publisher) Service {
	return New(repository.NewMongoRepo(col), pub)
}

// New wires a Service over repo. A nil publisher disables change events.
func New(repo Repository, pub events.Publisher) Service {
	if pub == nil {
		pub = events.Nop{}
	}
	return &jobService{repo: repo, pub: pub}
}

type jobService struct {
	repo Repository
	pub  events.Publisher
}

func (s *jobService) List(ctx context.Context) ([]*job.Job, error) {
	jobs, err := s.repo.List(ctx)
	record("list", err)
	return jobs, err
}

func (s *jobService) Get(ctx context.Context, id string) (*job.Job, error) {
	j, err := s.repo.Get(ctx, id)
	record("get", err)
	return j, err
}

func (s *jobService) Create(ctx context.Context, p job.Patch) (*job.Job, error) {
	j := p.New()
	if err := job.Validate(j); err != nil {
		record("create", err)
		return nil, err
	}
	created, err := s.repo.Create(ctx, j)
	record("create", err)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.JobCreated, created)
	return created, nil
}

// Update reads the current record, merges p into it and validates the
// result before anything is written, so a rejected update changes nothing.
func (s *jobService) Update(ctx context.Context, id string, p job.Patch) (*job.Job, error) {
	cur, err := s.repo.Get(ctx, id)
	if err != nil {
		record("update", err)
		return nil, err
	}
	p.Apply(cur)
	if err := job.Validate(cur); err != nil {
		record("update", err)
		return nil, err
	}
	updated, err := s.repo.Update(ctx, cur)
	record("update", err)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.JobUpdated, updated)
	return updated, nil
}

func (s *jobService) Delete(ctx context.Context, id string) (*job.Job, error) {
	j, err := s.repo.Delete(ctx, id)
	record("delete", err)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.JobDeleted, j)
	return j, nil
}

func (s *jobService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

// publish never fails the caller; the write has already happened.
func (s *jobService) publish(ctx context.Context, t events.Type, j *job.Job) {
	if err := s.pub.Publish(ctx, events.NewEvent(t, j)); err != nil {
		metrics.EventsPublishFailed.Inc()
		logger.Warnf("job %s: %v", j.ID, err)
	}
}

func record(op string, err error) {
	metrics.JobOperations.WithLabelValues(op, outcome(err)).Inc()
}

func outcome(err error) string {
	var verr *job.ValidationError
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, ErrNotFound):
		return metrics.OutcomeNotFound
	case errors.As(err, &verr):
		return metrics.OutcomeInvalid
	default:
		return metrics.OutcomeError
	}
}
