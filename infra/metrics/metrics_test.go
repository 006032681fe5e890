package metrics

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giovaniif/items/domain/item"
	"github.com/giovaniif/items/infra/repositories"
)

type failingRepository struct {
	item.Repository
}

func (failingRepository) Delete(ctx context.Context, id int32) error {
	return errors.New("boom")
}

func TestItemRepositoryCountsOperations(t *testing.T) {
	ctx := context.Background()
	m := New(prometheus.NewRegistry())
	r := NewItemRepository(repositories.NewItemRepositoryMemory(), m)

	created, err := r.Create(ctx, item.Data{Title: "a"})
	require.NoError(t, err)
	_, _, err = r.GetById(ctx, created.Id)
	require.NoError(t, err)
	_, _, err = r.GetById(ctx, 999)
	require.NoError(t, err)
	_, err = r.GetAll(ctx)
	require.NoError(t, err)
	require.NoError(t, r.Update(ctx, created.Id, item.OptionalData{}))
	require.NoError(t, r.Delete(ctx, created.Id))
	require.NoError(t, r.DeleteAll(ctx))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.OperationsTotal.WithLabelValues("create", OutcomeOk)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OperationsTotal.WithLabelValues("get_by_id", OutcomeOk)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OperationsTotal.WithLabelValues("get_by_id", OutcomeNotFound)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OperationsTotal.WithLabelValues("get_all", OutcomeOk)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OperationsTotal.WithLabelValues("update", OutcomeOk)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OperationsTotal.WithLabelValues("delete", OutcomeOk)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OperationsTotal.WithLabelValues("delete_all", OutcomeOk)))
	assert.Equal(t, 6, testutil.CollectAndCount(m.OperationDuration))
}

func TestItemRepositoryCountsErrors(t *testing.T) {
	m := New(prometheus.NewRegistry())
	r := NewItemRepository(failingRepository{}, m)

	err := r.Delete(context.Background(), 1)
	require.Error(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OperationsTotal.WithLabelValues("delete", OutcomeError)))
}
