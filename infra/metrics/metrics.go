package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/giovaniif/items/domain/item"
)

const (
	OutcomeOk       = "ok"
	OutcomeError    = "error"
	OutcomeNotFound = "not_found"
)

type Metrics struct {
	OperationsTotal   *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		OperationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "items_operations_total",
				Help: "Total number of item store operations",
			},
			[]string{"operation", "outcome"},
		),
		OperationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "items_operation_duration_seconds",
				Help:    "Item store operation duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// ItemRepository records a counter and a latency sample for every call it forwards.
type ItemRepository struct {
	next    item.Repository
	metrics *Metrics
}

func NewItemRepository(next item.Repository, metrics *Metrics) *ItemRepository {
	return &ItemRepository{next: next, metrics: metrics}
}

func (r *ItemRepository) observe(operation string, start time.Time, outcome string) {
	r.metrics.OperationsTotal.WithLabelValues(operation, outcome).Inc()
	r.metrics.OperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

func outcomeOf(err error) string {
	if err != nil {
		return OutcomeError
	}
	return OutcomeOk
}

func (r *ItemRepository) GetAll(ctx context.Context) ([]item.Item, error) {
	start := time.Now()
	items, err := r.next.GetAll(ctx)
	r.observe("get_all", start, outcomeOf(err))
	return items, err
}

func (r *ItemRepository) GetById(ctx context.Context, id int32) (item.Item, bool, error) {
	start := time.Now()
	it, found, err := r.next.GetById(ctx, id)
	outcome := outcomeOf(err)
	if err == nil && !found {
		outcome = OutcomeNotFound
	}
	r.observe("get_by_id", start, outcome)
	return it, found, err
}

func (r *ItemRepository) Create(ctx context.Context, data item.Data) (item.Item, error) {
	start := time.Now()
	it, err := r.next.Create(ctx, data)
	r.observe("create", start, outcomeOf(err))
	return it, err
}

func (r *ItemRepository) Update(ctx context.Context, id int32, data item.OptionalData) error {
	start := time.Now()
	err := r.next.Update(ctx, id, data)
	r.observe("update", start, outcomeOf(err))
	return err
}

func (r *ItemRepository) Delete(ctx context.Context, id int32) error {
	start := time.Now()
	err := r.next.Delete(ctx, id)
	r.observe("delete", start, outcomeOf(err))
	return err
}

func (r *ItemRepository) DeleteAll(ctx context.Context) error {
	start := time.Now()
	err := r.next.DeleteAll(ctx)
	r.observe("delete_all", start, outcomeOf(err))
	return err
}
