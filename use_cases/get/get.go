package get

import (
	"context"

	"go.uber.org/zap"

	"github.com/giovaniif/items/domain/item"
	"github.com/giovaniif/items/infra/requestid"
)

type Get struct {
	itemRepository item.Repository
	logger         *zap.Logger
}

func NewGet(itemRepository item.Repository, logger *zap.Logger) *Get {
	return &Get{
		itemRepository: itemRepository,
		logger:         logger,
	}
}

func (g *Get) Get(ctx context.Context, input Input) (Output, error) {
	found, ok, err := g.itemRepository.GetById(ctx, input.ItemId)
	if err != nil {
		g.logger.Error("failed to get item", requestid.Field(ctx), zap.Int32("item_id", input.ItemId), zap.Error(err))
		return Output{}, err
	}

	g.logger.Debug("looked up item", requestid.Field(ctx), zap.Int32("item_id", input.ItemId), zap.Bool("found", ok))
	return Output{Item: found, Found: ok}, nil
}

type Input struct {
	ItemId int32
}

type Output struct {
	Item  item.Item
	Found bool
}
