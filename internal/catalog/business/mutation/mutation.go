package mutation

import (
	"context"
	"errors"
	"gomarketplace_admin/internal/catalog/business/models"
	"gomarketplace_admin/internal/catalog/business/services"
	"gomarketplace_admin/metrics"
	"gomarketplace_admin/pkg/logger"
	"sync"

	"github.com/google/uuid"
)

var ErrInFlight = errors.New("product submission already in progress")

const (
	StatusPending = "pending"
	StatusCreated = "created"
	StatusFailed  = "failed"
)

// Result наблюдаемое состояние мутации создания товара.
type Result struct {
	Loading bool
	Success bool
	Err     error
	Product *models.CreatedProduct
}

type ProductCreator interface {
	CreateProduct(ctx context.Context, requestID string, payload *models.Payload) (*models.CreatedProduct, error)
}

// Submission запись журнала об одной отправке.
type Submission struct {
	ID        string
	Title     string
	Category  string
	Brand     string
	Store     string
	FileNames []string
}

type Journal interface {
	Start(ctx context.Context, s Submission) error
	Finish(ctx context.Context, id, status, errMessage string) error
}

type ProductMutation struct {
	creator ProductCreator
	journal Journal
	log     logger.Logger
	metrics *metrics.SubmissionMetrics
	newID   func() string

	mu      sync.Mutex
	result  Result
	subs    map[int]func(Result)
	nextSub int
	wg      sync.WaitGroup
}

type Option func(*ProductMutation)

func WithJournal(j Journal) Option {
	return func(m *ProductMutation) { m.journal = j }
}

func WithMetrics(sm *metrics.SubmissionMetrics) Option {
	return func(m *ProductMutation) { m.metrics = sm }
}

func NewProductMutation(creator ProductCreator, log logger.Logger, opts ...Option) *ProductMutation {
	m := &ProductMutation{
		creator: creator,
		log:     log,
		metrics: &metrics.SubmissionMetrics{},
		newID:   func() string { return uuid.NewString() },
		subs:    make(map[int]func(Result)),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Submit ставит Loading и отправляет payload в фоне. Ошибку API получает
// notifier; вызывающий узнаёт об исходе через Subscribe или Result.
func (m *ProductMutation) Submit(ctx context.Context, payload *models.Payload, notifier services.Notifier) error {
	m.mu.Lock()
	if m.result.Loading {
		m.mu.Unlock()
		return ErrInFlight
	}
	m.result = Result{Loading: true}
	m.wg.Add(1)
	m.mu.Unlock()

	m.metrics.Record(metrics.OutcomeDispatched)
	m.publish()

	// Уход со страницы не отменяет уже отправленный запрос.
	ctx = context.WithoutCancel(ctx)
	submission := newSubmission(m.newID(), payload)

	go func() {
		defer m.wg.Done()
		m.run(ctx, submission, payload, notifier)
	}()
	return nil
}

func (m *ProductMutation) run(ctx context.Context, submission Submission, payload *models.Payload, notifier services.Notifier) {
	if m.journal != nil {
		if err := m.journal.Start(ctx, submission); err != nil {
			m.log.Log("journal start %s failed: %s", submission.ID, err)
		}
	}

	product, err := m.creator.CreateProduct(ctx, submission.ID, payload)

	status, errMessage := StatusCreated, ""
	m.mu.Lock()
	if err != nil {
		status, errMessage = StatusFailed, err.Error()
		m.result = Result{Err: err}
	} else {
		m.result = Result{Success: true, Product: product}
	}
	m.mu.Unlock()

	if m.journal != nil {
		if jerr := m.journal.Finish(ctx, submission.ID, status, errMessage); jerr != nil {
			m.log.Log("journal finish %s failed: %s", submission.ID, jerr)
		}
	}

	if err != nil {
		m.log.Log("submission %s failed: %s", submission.ID, err)
		m.metrics.Record(metrics.OutcomeFailed)
		notifier.Error(err.Error())
	} else {
		m.log.Log("submission %s created product %s", submission.ID, product.ID)
		m.metrics.Record(metrics.OutcomeCreated)
		notifier.Success("Product created")
	}
	m.publish()
}

func newSubmission(id string, payload *models.Payload) Submission {
	s := Submission{ID: id}
	s.Title, _ = payload.Value(models.FieldTitle)
	s.Category, _ = payload.Value(models.FieldCategory)
	s.Brand, _ = payload.Value(models.FieldBrand)
	s.Store, _ = payload.Value(models.FieldStore)
	for _, f := range payload.Files {
		s.FileNames = append(s.FileNames, f.Name)
	}
	return s
}

func (m *ProductMutation) Result() Result {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.result
}

// ResetResult сбрасывает флаг успеха после того, как форма на него отреагировала.
func (m *ProductMutation) ResetResult() {
	m.mu.Lock()
	if m.result.Loading {
		m.mu.Unlock()
		return
	}
	m.result = Result{}
	m.mu.Unlock()
	m.publish()
}

// Subscribe регистрирует fn на каждое изменение состояния и возвращает
// функцию отписки. fn вызывается вне блокировки мутации.
func (m *ProductMutation) Subscribe(fn func(Result)) func() {
	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

// Wait блокирует до завершения отправленного запроса.
func (m *ProductMutation) Wait() {
	m.wg.Wait()
}

func (m *ProductMutation) Metrics() *metrics.SubmissionMetrics {
	return m.metrics
}

func (m *ProductMutation) publish() {
	m.mu.Lock()
	result := m.result
	subs := make([]func(Result), 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	m.mu.Unlock()

	for _, fn := range subs {
		fn(result)
	}
}
