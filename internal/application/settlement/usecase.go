// Package settlement orquesta el cálculo de liquidaciones: trae los cuatro datasets del
// almacén (vía el caché de la sesión), los parsea y ejecuta el motor de dominio.
package settlement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/liquidacion-api/internal/application/cache"
	"github.com/jhoicas/liquidacion-api/internal/domain"
	"github.com/jhoicas/liquidacion-api/internal/domain/entity"
	"github.com/jhoicas/liquidacion-api/internal/domain/repository"
	domsettlement "github.com/jhoicas/liquidacion-api/internal/domain/settlement"
	"github.com/jhoicas/liquidacion-api/pkg/logger"
)

// Result liquidación calculada más los metadatos del cálculo.
type Result struct {
	ComputationID uuid.UUID
	SessionID     string
	Sequence      uint64
	GeneratedAt   time.Time
	CacheHits     int
	Report        domsettlement.Report
}

// SettlementUseCase caso de uso de liquidación.
type SettlementUseCase struct {
	store    repository.RecordStore
	engine   *domsettlement.Engine
	sessions *cache.Sessions
	tracker  *Tracker
	log      *logger.Logger
	now      func() time.Time
}

// NewSettlementUseCase construye el caso de uso.
func NewSettlementUseCase(store repository.RecordStore, engine *domsettlement.Engine, sessions *cache.Sessions, log *logger.Logger) *SettlementUseCase {
	return &SettlementUseCase{
		store:    store,
		engine:   engine,
		sessions: sessions,
		tracker:  NewTracker(),
		log:      log.Component("settlement"),
		now:      time.Now,
	}
}

// Compute calcula la liquidación del período para la sesión.
//
// Los cuatro datasets se traen en paralelo y todos deben llegar antes de calcular:
// un fallo del almacén aborta con AdapterError, nunca hay reporte parcial.
// Si otra solicitud de la misma sesión llega mientras tanto, esta devuelve ErrSuperseded.
func (uc *SettlementUseCase) Compute(ctx context.Context, sessionID string, period entity.Period) (*Result, error) {
	ctx, ticket := uc.tracker.Begin(ctx, sessionID, period)
	defer ticket.Done()

	in, hits, warnings, err := uc.fetch(ctx, uc.sessions.For(sessionID), period)
	if !ticket.Current() {
		uc.log.Debug().Str("session", sessionID).Uint64("seq", ticket.Seq()).Msg("cálculo reemplazado, se descarta")
		return nil, domain.ErrSuperseded
	}
	if err != nil {
		uc.log.Error().Err(err).Str("session", sessionID).Str("period", period.Key()).Msg("fallo al traer datasets")
		return nil, fmt.Errorf("liquidación: %w", err)
	}

	report := uc.engine.BuildReport(in, period)
	all := make([]domain.Warning, 0, len(warnings)+len(report.Warnings))
	all = append(all, warnings...)
	report.Warnings = append(all, report.Warnings...)

	if !ticket.Current() {
		return nil, domain.ErrSuperseded
	}

	res := &Result{
		ComputationID: uuid.New(),
		SessionID:     sessionID,
		Sequence:      ticket.Seq(),
		GeneratedAt:   uc.now().UTC(),
		CacheHits:     hits,
		Report:        report,
	}
	uc.log.Info().
		Str("session", sessionID).
		Str("computation_id", res.ComputationID.String()).
		Str("period", period.Key()).
		Int("work_orders", report.Totals.WorkOrders).
		Int("lines", len(report.Lines)).
		Int("warnings", len(report.Warnings)).
		Int("cache_hits", hits).
		Msg("liquidación calculada")
	return res, nil
}

// InvalidateCache descarta datasets cacheados. Sin datasets descarta todos.
// sessionID vacío aplica a todas las sesiones (colaborador CRUD tras una mutación).
func (uc *SettlementUseCase) InvalidateCache(sessionID string, datasets []string) error {
	for _, k := range datasets {
		if !cache.IsKnownKey(k) {
			return fmt.Errorf("%w: dataset desconocido %q", domain.ErrInvalidInput, k)
		}
	}
	if sessionID == "" {
		uc.sessions.InvalidateAll(datasets...)
	} else {
		uc.sessions.For(sessionID).Invalidate(datasets...)
	}
	uc.log.Info().Str("session", sessionID).Strs("datasets", datasets).Msg("caché invalidado")
	return nil
}

// fetch trae los cuatro datasets con errgroup: el primer error cancela el resto.
func (uc *SettlementUseCase) fetch(ctx context.Context, c *cache.Cache, period entity.Period) (domsettlement.Input, int, []domain.Warning, error) {
	var (
		orders    dataset[entity.WorkOrder]
		movements dataset[entity.OutboundMovement]
		employees dataset[entity.Employee]
		prices    dataset[entity.PartPriceEntry]
		hit       [4]bool
	)
	rng := repository.DateRange{From: period.Start, To: period.End}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		orders, hit[0], err = cache.GetOrFetch(gctx, c, cache.KeyWorkOrders, &rng, func(ctx context.Context) (dataset[entity.WorkOrder], error) {
			recs, err := uc.store.QueryByDateRange(ctx, repository.CollectionWorkOrders, FieldDate, rng, repository.Eq(FieldDone, true))
			if err != nil {
				return dataset[entity.WorkOrder]{}, domain.NewAdapterError("queryByDateRange", repository.CollectionWorkOrders, err)
			}
			return parseAll(repository.CollectionWorkOrders, recs, parseWorkOrder), nil
		})
		return err
	})
	g.Go(func() error {
		var err error
		movements, hit[1], err = cache.GetOrFetch(gctx, c, cache.KeyMovements, nil, func(ctx context.Context) (dataset[entity.OutboundMovement], error) {
			recs, err := uc.store.QueryByEquality(ctx, repository.CollectionMovements, repository.Eq(FieldKind, entity.MovementKindOut))
			if err != nil {
				return dataset[entity.OutboundMovement]{}, domain.NewAdapterError("queryByEquality", repository.CollectionMovements, err)
			}
			return parseAll(repository.CollectionMovements, recs, parseMovement), nil
		})
		return err
	})
	g.Go(func() error {
		var err error
		employees, hit[2], err = cache.GetOrFetch(gctx, c, cache.KeyEmployees, nil, func(ctx context.Context) (dataset[entity.Employee], error) {
			recs, err := uc.store.QueryByEquality(ctx, repository.CollectionEmployees)
			if err != nil {
				return dataset[entity.Employee]{}, domain.NewAdapterError("queryByEquality", repository.CollectionEmployees, err)
			}
			return parseAll(repository.CollectionEmployees, recs, parseEmployee), nil
		})
		return err
	})
	g.Go(func() error {
		var err error
		prices, hit[3], err = cache.GetOrFetch(gctx, c, cache.KeyPartPrices, nil, func(ctx context.Context) (dataset[entity.PartPriceEntry], error) {
			recs, err := uc.store.QueryByEquality(ctx, repository.CollectionPartPrices)
			if err != nil {
				return dataset[entity.PartPriceEntry]{}, domain.NewAdapterError("queryByEquality", repository.CollectionPartPrices, err)
			}
			return parseAll(repository.CollectionPartPrices, recs, parsePartPrice), nil
		})
		return err
	})
	if err := g.Wait(); err != nil {
		if errors.Is(err, context.Canceled) && ctx.Err() != nil {
			return domsettlement.Input{}, 0, nil, ctx.Err()
		}
		return domsettlement.Input{}, 0, nil, err
	}

	hits := 0
	for _, h := range hit {
		if h {
			hits++
		}
	}
	var warnings []domain.Warning
	warnings = append(warnings, orders.Warnings...)
	warnings = append(warnings, movements.Warnings...)
	warnings = append(warnings, employees.Warnings...)
	warnings = append(warnings, prices.Warnings...)

	return domsettlement.Input{
		WorkOrders: orders.Items,
		Movements:  movements.Items,
		PartPrices: prices.Items,
		Employees:  employees.Items,
	}, hits, warnings, nil
}
