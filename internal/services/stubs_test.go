package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"alfredoptarigan/resume-analyzer/internal/models"
	"alfredoptarigan/resume-analyzer/internal/repositories"
)

// stubResumeRepo is an in-memory ResumeRepository that applies updates the
// same way the real stores do.
type stubResumeRepo struct {
	mu        sync.Mutex
	records   map[string]*models.Resume
	createErr error
	findErr   error
	updateErr func(id string, update *repositories.AnalysisUpdate) error
	updates   []*repositories.AnalysisUpdate
}

func newStubResumeRepo(records ...*models.Resume) *stubResumeRepo {
	r := &stubResumeRepo{records: map[string]*models.Resume{}}
	for _, rec := range records {
		r.records[rec.ResumeID] = rec
	}
	return r
}

func (r *stubResumeRepo) Create(ctx context.Context, resume *models.Resume) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	copied := *resume
	r.records[resume.ResumeID] = &copied
	return nil
}

func (r *stubResumeRepo) FindByID(ctx context.Context, id string) (*models.Resume, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	rec, ok := r.records[id]
	if !ok {
		return nil, repositories.ErrResumeNotFound
	}
	copied := *rec
	return &copied, nil
}

func (r *stubResumeRepo) UpdateAnalysis(ctx context.Context, id string, update *repositories.AnalysisUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates = append(r.updates, update)
	if err := update.Validate(); err != nil {
		return err
	}
	if r.updateErr != nil {
		if err := r.updateErr(id, update); err != nil {
			return err
		}
	}
	rec, ok := r.records[id]
	if !ok {
		return repositories.ErrResumeNotFound
	}
	ts := update.AnalysisTimestamp
	rec.Status = update.Status
	rec.AnalysisTimestamp = &ts
	if update.AnalysisResults != nil {
		rec.AnalysisResults = update.AnalysisResults
	}
	if update.ErrorMessage != nil {
		rec.ErrorMessage = update.ErrorMessage
	}
	if update.CompatibilityScore != nil {
		rec.CompatibilityScore = update.CompatibilityScore
	}
	if update.TopTechnicalSkillsFound != nil {
		rec.TopTechnicalSkillsFound = update.TopTechnicalSkillsFound
	}
	if update.CompatibilityExplanation != nil {
		rec.CompatibilityExplanation = update.CompatibilityExplanation
	}
	if update.SuggestedKeywords != nil {
		rec.SuggestedKeywords = update.SuggestedKeywords
	}
	return nil
}

func (r *stubResumeRepo) get(id string) *models.Resume {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.records[id]
}

type storedObject struct {
	data        []byte
	contentType string
}

type stubStorage struct {
	mu      sync.Mutex
	objects map[string]storedObject
	putErr  error
}

func newStubStorage() *stubStorage {
	return &stubStorage{objects: map[string]storedObject{}}
}

func (s *stubStorage) Put(ctx context.Context, bucket, key string, data []byte, contentType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.putErr != nil {
		return s.putErr
	}
	s.objects[bucket+"/"+key] = storedObject{data: data, contentType: contentType}
	return nil
}

func (s *stubStorage) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	obj, ok := s.objects[bucket+"/"+key]
	if !ok {
		return nil, fmt.Errorf("failed to get object: NoSuchKey: %s/%s", bucket, key)
	}
	return obj.data, nil
}

type stubQueue struct {
	mu       sync.Mutex
	sent     []models.WorkItem
	batches  [][]QueueMessage
	deleted  []string
	sendErr  error
	received chan struct{}
}

func (q *stubQueue) Send(ctx context.Context, item models.WorkItem) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.sendErr != nil {
		return q.sendErr
	}
	q.sent = append(q.sent, item)
	return nil
}

// Receive hands out the queued batches one at a time, then blocks until ctx ends.
func (q *stubQueue) Receive(ctx context.Context) ([]QueueMessage, error) {
	q.mu.Lock()
	if len(q.batches) > 0 {
		batch := q.batches[0]
		q.batches = q.batches[1:]
		q.mu.Unlock()
		return batch, nil
	}
	q.mu.Unlock()

	if q.received != nil {
		select {
		case q.received <- struct{}{}:
		default:
		}
	}
	<-ctx.Done()
	return nil, ctx.Err()
}

func (q *stubQueue) Delete(ctx context.Context, msg QueueMessage) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.deleted = append(q.deleted, msg.ID)
	return nil
}

func (q *stubQueue) Close() error {
	return nil
}

func (q *stubQueue) deletedIDs() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]string(nil), q.deleted...)
}

type stubGenerator struct {
	response string
	err      error
	panicMsg string
	prompts  []string
}

func (g *stubGenerator) Generate(ctx context.Context, prompt string, profile InferenceProfile) (string, error) {
	g.prompts = append(g.prompts, prompt)
	if g.panicMsg != "" {
		panic(g.panicMsg)
	}
	return g.response, g.err
}

var errStoreDown = errors.New("store unavailable")
