package mutation

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"gomarketplace_admin/internal/catalog/business/models"
	"gomarketplace_admin/internal/catalog/business/services"
	"gomarketplace_admin/pkg/logger"
)

type creatorFunc func(ctx context.Context, requestID string, payload *models.Payload) (*models.CreatedProduct, error)

func (f creatorFunc) CreateProduct(ctx context.Context, requestID string, payload *models.Payload) (*models.CreatedProduct, error) {
	return f(ctx, requestID, payload)
}

type memoryJournal struct {
	mu       sync.Mutex
	started  []Submission
	finished map[string]string
}

func (j *memoryJournal) Start(_ context.Context, s Submission) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.started = append(j.started, s)
	return nil
}

func (j *memoryJournal) Finish(_ context.Context, id, status, _ string) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.finished == nil {
		j.finished = map[string]string{}
	}
	j.finished[id] = status
	return nil
}

func testPayload() *models.Payload {
	p := &models.Payload{}
	p.Add(models.FieldTitle, "Shirt")
	p.Add(models.FieldCategory, "c1")
	p.Attach(models.ImageFile{Name: "a.png", Data: []byte("x")})
	return p
}

func silent() logger.Logger {
	return logger.NewSilentLogger(io.Discard, "[test]")
}

func TestSubmitSuccess(t *testing.T) {
	var gotID string
	creator := creatorFunc(func(_ context.Context, requestID string, _ *models.Payload) (*models.CreatedProduct, error) {
		gotID = requestID
		return &models.CreatedProduct{ID: "p1"}, nil
	})
	journal := &memoryJournal{}
	m := NewProductMutation(creator, silent(), WithJournal(journal))
	m.newID = func() string { return "sub-1" }

	var mu sync.Mutex
	var states []Result
	m.Subscribe(func(r Result) {
		mu.Lock()
		states = append(states, r)
		mu.Unlock()
	})

	notifier := &services.RecordingNotifier{}
	if err := m.Submit(context.Background(), testPayload(), notifier); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	m.Wait()

	result := m.Result()
	if result.Loading || !result.Success || result.Product.ID != "p1" {
		t.Errorf("result = %+v", result)
	}
	if gotID != "sub-1" {
		t.Errorf("request id = %q", gotID)
	}
	if len(states) != 2 || !states[0].Loading || !states[1].Success {
		t.Errorf("published states = %+v", states)
	}
	if len(journal.started) != 1 || journal.started[0].Title != "Shirt" || journal.started[0].FileNames[0] != "a.png" {
		t.Errorf("journal started = %+v", journal.started)
	}
	if journal.finished["sub-1"] != StatusCreated {
		t.Errorf("journal finished = %v", journal.finished)
	}
	if m.Metrics().Created.Load() != 1 || m.Metrics().Dispatched.Load() != 1 {
		t.Error("metrics not recorded")
	}

	m.ResetResult()
	if r := m.Result(); r.Success || r.Loading {
		t.Errorf("after reset = %+v", r)
	}
}

func TestSubmitFailureNotifies(t *testing.T) {
	creator := creatorFunc(func(context.Context, string, *models.Payload) (*models.CreatedProduct, error) {
		return nil, errors.New("title already exists")
	})
	m := NewProductMutation(creator, silent())
	notifier := &services.RecordingNotifier{}

	_ = m.Submit(context.Background(), testPayload(), notifier)
	m.Wait()

	result := m.Result()
	if result.Loading || result.Success || result.Err == nil {
		t.Errorf("result = %+v", result)
	}
	if errs := notifier.Errors(); len(errs) != 1 || errs[0] != "title already exists" {
		t.Errorf("errors = %v", errs)
	}
}

func TestSubmitWhileLoadingRejected(t *testing.T) {
	release := make(chan struct{})
	creator := creatorFunc(func(context.Context, string, *models.Payload) (*models.CreatedProduct, error) {
		<-release
		return &models.CreatedProduct{ID: "p1"}, nil
	})
	m := NewProductMutation(creator, silent())
	notifier := &services.RecordingNotifier{}

	if err := m.Submit(context.Background(), testPayload(), notifier); err != nil {
		t.Fatalf("first Submit: %v", err)
	}
	if !m.Result().Loading {
		t.Error("Loading not set")
	}
	if err := m.Submit(context.Background(), testPayload(), notifier); !errors.Is(err, ErrInFlight) {
		t.Errorf("second Submit = %v, want ErrInFlight", err)
	}
	close(release)
	m.Wait()
}

func TestSubmitSurvivesCallerCancellation(t *testing.T) {
	creator := creatorFunc(func(ctx context.Context, _ string, _ *models.Payload) (*models.CreatedProduct, error) {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return &models.CreatedProduct{ID: "p1"}, nil
	})
	m := NewProductMutation(creator, silent())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = m.Submit(ctx, testPayload(), &services.RecordingNotifier{})
	m.Wait()

	if !m.Result().Success {
		t.Errorf("result = %+v", m.Result())
	}
}

func TestUnsubscribe(t *testing.T) {
	creator := creatorFunc(func(context.Context, string, *models.Payload) (*models.CreatedProduct, error) {
		return &models.CreatedProduct{ID: "p1"}, nil
	})
	m := NewProductMutation(creator, silent())

	calls := 0
	unsubscribe := m.Subscribe(func(Result) { calls++ })
	unsubscribe()

	_ = m.Submit(context.Background(), testPayload(), &services.RecordingNotifier{})
	m.Wait()
	if calls != 0 {
		t.Errorf("calls = %d after unsubscribe", calls)
	}
}
