package list

import (
	"context"

	"go.uber.org/zap"

	"github.com/giovaniif/items/domain/item"
	"github.com/giovaniif/items/infra/requestid"
)

type List struct {
	itemRepository item.Repository
	logger         *zap.Logger
}

func NewList(itemRepository item.Repository, logger *zap.Logger) *List {
	return &List{
		itemRepository: itemRepository,
		logger:         logger,
	}
}

func (l *List) List(ctx context.Context, input Input) ([]item.Item, error) {
	items, err := l.itemRepository.GetAll(ctx)
	if err != nil {
		l.logger.Error("failed to list items", requestid.Field(ctx), zap.Error(err))
		return nil, err
	}
	if input.SortByOrder {
		item.SortByOrder(items)
	}

	l.logger.Debug("listed items", requestid.Field(ctx), zap.Int("count", len(items)))
	return items, nil
}

type Input struct {
	SortByOrder bool
}
