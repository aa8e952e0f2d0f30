package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"gomarketplace_admin/config"
	"gomarketplace_admin/internal/catalog/business/drafts"
	"gomarketplace_admin/internal/catalog/business/form"
	"gomarketplace_admin/internal/catalog/business/models"
	"gomarketplace_admin/internal/catalog/business/mutation"
	"gomarketplace_admin/internal/catalog/business/reference"
	"gomarketplace_admin/internal/catalog/business/services"
	"gomarketplace_admin/internal/catalog/cache"
	"gomarketplace_admin/internal/catalog/pkg/clients"
	"gomarketplace_admin/internal/catalog/storage"
	catalogmigrations "gomarketplace_admin/migrations/catalog"
	"gomarketplace_admin/metrics"
	"gomarketplace_admin/pkg/business/service"
	"gomarketplace_admin/pkg/dbconnect"
	"gomarketplace_admin/pkg/dbconnect/migration"
	"gomarketplace_admin/pkg/logger"
	"io"
	"net/http"
	"time"
)

// DraftResult итог обработки одного черновика.
type DraftResult struct {
	Index     int
	Title     string
	ProductID string
	Err       error
}

type CatalogApp struct {
	dbconnect.Database
	config *config.AppConfig
	log    *logger.BaseLogger
	writer io.Writer

	// Transport подменяет транспорт HTTP-клиента, nil означает транспорт по умолчанию.
	Transport http.RoundTripper

	metrics *metrics.SubmissionMetrics
	text    service.ITextService
}

// NewCatalogApp connector может быть nil, тогда журнал отправок не ведётся.
func NewCatalogApp(connector dbconnect.Database, cfg *config.AppConfig, writer io.Writer) *CatalogApp {
	_log := logger.NewLogger(writer, "[CatalogApp]")
	return &CatalogApp{
		Database: connector,
		config:   cfg,
		log:      _log,
		writer:   writer,
		metrics:  &metrics.SubmissionMetrics{},
		text:     service.NewTextService(),
	}
}

func (a *CatalogApp) Metrics() *metrics.SubmissionMetrics {
	return a.metrics
}

// Run создаёт товары из черновиков по очереди, каждый через новую форму.
func (a *CatalogApp) Run(ctx context.Context, specs []drafts.Spec) ([]DraftResult, error) {
	cfg := a.config.Catalog
	authEngine, err := services.NewAuthEngine(cfg.ApiKey, cfg.JWTSecret, cfg.SellerID, cfg.Role, cfg.TokenTTL)
	if err != nil {
		return nil, err
	}

	base := clients.NewBaseClient(cfg.ApiURL, authEngine, a.log.WithPrefix("[client]"), clients.Options{
		Timeout:           cfg.Timeout,
		RequestsPerMinute: cfg.RequestsPerMinute,
		Burst:             cfg.Burst,
		Transport:         a.Transport,
	})

	referenceCache, closeCache := a.openCache(ctx)
	defer closeCache()

	chain, err := a.providerChain(clients.NewReferenceClient(base), referenceCache)
	if err != nil {
		return nil, err
	}
	store := reference.NewStore(chain)

	opts := []mutation.Option{mutation.WithMetrics(a.metrics)}
	if a.Database != nil && a.config.Postgres.Enabled {
		db, err := a.openJournal()
		if err != nil {
			return nil, err
		}
		defer a.Close()
		opts = append(opts, mutation.WithJournal(storage.NewSubmissionRepository(db)))
	}
	sink := mutation.NewProductMutation(clients.NewProductClient(base), a.log.WithPrefix("[mutation]"), opts...)

	results := make([]DraftResult, 0, len(specs))
	for i, spec := range specs {
		if ctx.Err() != nil {
			results = append(results, DraftResult{Index: i, Title: spec.Title, Err: ctx.Err()})
			continue
		}
		result := a.processDraft(ctx, i, spec, store, sink)
		if result.Err != nil {
			a.log.Log("draft %d %q failed: %s", i, spec.Title, result.Err)
		} else {
			a.log.Log("draft %d %q created product %s", i, spec.Title, result.ProductID)
		}
		results = append(results, result)
	}
	return results, nil
}

func (a *CatalogApp) openCache(ctx context.Context) (cache.Cache, func()) {
	if a.config.Redis.Addr != "" {
		redisCache, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     a.config.Redis.Addr,
			Password: a.config.Redis.Password,
			DB:       a.config.Redis.DB,
		})
		if err == nil {
			return redisCache, func() { _ = redisCache.Close() }
		}
		a.log.Log("Redis %s unavailable, using memory cache: %s", a.config.Redis.Addr, err)
	}
	memory := cache.NewMemoryCache(time.Minute)
	return memory, memory.Close
}

func (a *CatalogApp) providerChain(fetcher reference.KindFetcher, c cache.Cache) (*reference.ProviderChain, error) {
	chain := reference.NewProviderChain(a.log)
	for _, kind := range models.ReferenceKinds {
		provider := reference.NewCachedProvider(
			reference.ForKind(fetcher, kind),
			c,
			a.config.Cache.Prefix+string(kind),
			a.config.Cache.TTL,
			a.log,
		)
		if err := chain.Register(kind, provider); err != nil {
			return nil, err
		}
	}
	return chain, nil
}

func (a *CatalogApp) openJournal() (*sql.DB, error) {
	db, err := a.Connect()
	if err != nil {
		return nil, fmt.Errorf("error connecting to PostgreSQL: %w", err)
	}
	err = migration.Apply(db,
		&catalogmigrations.MigrationsRegistry{},
		&catalogmigrations.CreateCatalogSchema{},
		&catalogmigrations.CreateSubmissionsTable{},
	)
	if err != nil {
		return nil, err
	}
	a.log.Log("Catalog migrations applied successfully!")
	return db, nil
}

func (a *CatalogApp) processDraft(ctx context.Context, index int, spec drafts.Spec, store *reference.Store, sink *mutation.ProductMutation) DraftResult {
	result := DraftResult{Index: index, Title: spec.Title}

	toasts := &services.RecordingNotifier{}
	notifier := services.MultiNotifier{services.NewLogNotifier(a.log.WithPrefix(fmt.Sprintf("[draft %d]", index))), toasts}

	f := form.New(store, sink, notifier, form.Options{
		DecodeWorkers: a.config.Form.DecodeWorkers,
		MaxImageBytes: a.config.Form.MaxImageBytes,
		Metrics:       a.metrics,
	})
	defer f.Close()

	f.Initialize(ctx)

	if err := spec.Normalize(a.text).ApplyTo(f); err != nil {
		result.Err = err
		return result
	}
	files, err := spec.ReadImages()
	if err != nil {
		result.Err = err
		return result
	}
	if err := f.SelectImages(files); err != nil {
		result.Err = err
		return result
	}
	if err := f.WaitImages(ctx); err != nil {
		result.Err = err
		return result
	}

	// Финальное состояние ловим подпиской: после успеха форма сразу
	// сбрасывает флаг мутации.
	outcome := make(chan mutation.Result, 1)
	unsubscribe := sink.Subscribe(func(r mutation.Result) {
		if r.Loading || (!r.Success && r.Err == nil) {
			return
		}
		select {
		case outcome <- r:
		default:
		}
	})
	defer unsubscribe()

	if err := f.Submit(ctx); err != nil {
		result.Err = err
		return result
	}
	sink.Wait()

	select {
	case r := <-outcome:
		if r.Err != nil {
			result.Err = r.Err
		} else if r.Product != nil {
			result.ProductID = r.Product.ID
		}
	default:
		result.Err = errors.New("submission finished without a result")
	}
	return result
}
