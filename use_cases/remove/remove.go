package remove

import (
	"context"

	"go.uber.org/zap"

	"github.com/giovaniif/items/domain/item"
	"github.com/giovaniif/items/infra/requestid"
)

type Remove struct {
	itemRepository item.Repository
	logger         *zap.Logger
}

func NewRemove(itemRepository item.Repository, logger *zap.Logger) *Remove {
	return &Remove{
		itemRepository: itemRepository,
		logger:         logger,
	}
}

func (r *Remove) Remove(ctx context.Context, input Input) error {
	err := r.itemRepository.Delete(ctx, input.ItemId)
	if err != nil {
		r.logger.Error("failed to delete item", requestid.Field(ctx), zap.Int32("item_id", input.ItemId), zap.Error(err))
		return err
	}

	r.logger.Info("deleted item", requestid.Field(ctx), zap.Int32("item_id", input.ItemId))
	return nil
}

type Input struct {
	ItemId int32
}
