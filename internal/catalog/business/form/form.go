package form

import (
	"context"
	"errors"
	"gomarketplace_admin/internal/catalog/business/models"
	"gomarketplace_admin/internal/catalog/business/mutation"
	"gomarketplace_admin/internal/catalog/business/services"
	"gomarketplace_admin/metrics"
	"sync"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"
)

var (
	ErrSubmitInFlight   = errors.New("submit is disabled while the product is being created")
	ErrFormClosed       = errors.New("form is closed")
	ErrUnknownReference = errors.New("value is not in the list")
	ErrUnknownPolicy    = errors.New("unknown shipment policy")
)

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseValidating
	PhaseSubmitting
	PhaseResetting
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseValidating:
		return "validating"
	case PhaseSubmitting:
		return "submitting"
	case PhaseResetting:
		return "resetting"
	}
	return "unknown"
}

// ReferenceSource справочники, из которых выбираются категория, бренд и магазин.
type ReferenceSource interface {
	Load(ctx context.Context, kind models.ReferenceKind, notifier services.Notifier) error
	Contains(kind models.ReferenceKind, id string) bool
	Items(kind models.ReferenceKind) []models.ReferenceItem
}

// Sink мутация создания товара.
type Sink interface {
	Submit(ctx context.Context, payload *models.Payload, notifier services.Notifier) error
	Result() mutation.Result
	ResetResult()
	Subscribe(fn func(mutation.Result)) func()
}

type Options struct {
	DecodeWorkers int
	MaxImageBytes int64
	Metrics       *metrics.SubmissionMetrics
}

// Preview изображение, готовое к показу.
type Preview struct {
	Name    string
	DataURI string
}

// Form экран создания товара. Все методы безопасны для конкурентного вызова.
type Form struct {
	refs     ReferenceSource
	sink     Sink
	notifier services.Notifier
	toasts   services.Notifier
	validate *validator.Validate
	metrics  *metrics.SubmissionMetrics

	decodeWorkers int
	maxImageBytes int64

	ctx         context.Context
	cancel      context.CancelFunc
	unsubscribe func()

	mu         sync.Mutex
	draft      Draft
	files      []models.ImageFile
	failed     map[int]bool
	previews   []Preview
	generation int
	decoding   chan struct{}
	phase      Phase
	closed     bool
}

func New(refs ReferenceSource, sink Sink, notifier services.Notifier, opts Options) *Form {
	if opts.DecodeWorkers <= 0 {
		opts.DecodeWorkers = 4
	}
	if opts.MaxImageBytes <= 0 {
		opts.MaxImageBytes = 10 << 20
	}
	if opts.Metrics == nil {
		opts.Metrics = &metrics.SubmissionMetrics{}
	}

	ctx, cancel := context.WithCancel(context.Background())
	f := &Form{
		refs:          refs,
		sink:          sink,
		toasts:        notifier,
		validate:      newValidator(),
		metrics:       opts.Metrics,
		decodeWorkers: opts.DecodeWorkers,
		maxImageBytes: opts.MaxImageBytes,
		ctx:           ctx,
		cancel:        cancel,
		draft:         DefaultDraft(),
		phase:         PhaseIdle,
	}
	f.notifier = &guardedNotifier{form: f, next: notifier}
	f.unsubscribe = sink.Subscribe(f.onMutation)
	return f
}

// Initialize загружает категории, бренды и магазины параллельно. Ошибка
// одного справочника не мешает остальным; сообщение уходит в notifier.
func (f *Form) Initialize(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(f.ctx, cancel)
	defer stop()

	var g errgroup.Group
	for _, kind := range models.ReferenceKinds {
		g.Go(func() error {
			_ = f.refs.Load(ctx, kind, f.notifier)
			return nil
		})
	}
	_ = g.Wait()
}

// Options возвращает текущие варианты выбора для справочника.
func (f *Form) Options(kind models.ReferenceKind) []models.ReferenceItem {
	return f.refs.Items(kind)
}

func (f *Form) Draft() Draft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

func (f *Form) Phase() Phase {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.phase
}

// SubmitDisabled кнопка отправки неактивна, пока идёт создание товара.
func (f *Form) SubmitDisabled() bool {
	return f.sink.Result().Loading
}

func (f *Form) SubmitLabel() string {
	if f.SubmitDisabled() {
		return "Creating..."
	}
	return "Create"
}

// Close аналог размонтирования: незавершённые декодирования и загрузки
// справочников отбрасываются, подписка на мутацию снимается.
func (f *Form) Close() {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	f.closed = true
	f.generation++
	f.mu.Unlock()

	f.cancel()
	f.unsubscribe()
}

func (f *Form) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func (f *Form) setPhase(p Phase) {
	f.mu.Lock()
	f.phase = p
	f.mu.Unlock()
}

// guardedNotifier глушит сообщения, пришедшие после Close.
type guardedNotifier struct {
	form *Form
	next services.Notifier
}

func (g *guardedNotifier) Error(message string) {
	if !g.form.isClosed() {
		g.next.Error(message)
	}
}

func (g *guardedNotifier) Success(message string) {
	if !g.form.isClosed() {
		g.next.Success(message)
	}
}
