package update

import (
	"context"

	"go.uber.org/zap"

	"github.com/giovaniif/items/domain/item"
	"github.com/giovaniif/items/infra/requestid"
)

type Update struct {
	itemRepository item.Repository
	logger         *zap.Logger
}

func NewUpdate(itemRepository item.Repository, logger *zap.Logger) *Update {
	return &Update{
		itemRepository: itemRepository,
		logger:         logger,
	}
}

func (u *Update) Update(ctx context.Context, input Input) error {
	if err := item.ValidateOptionalData(input.Data); err != nil {
		u.logger.Warn("rejected item patch", requestid.Field(ctx), zap.Int32("item_id", input.ItemId), zap.Error(err))
		return err
	}

	err := u.itemRepository.Update(ctx, input.ItemId, input.Data)
	if err != nil {
		u.logger.Error("failed to update item", requestid.Field(ctx), zap.Int32("item_id", input.ItemId), zap.Error(err))
		return err
	}

	u.logger.Info("updated item", requestid.Field(ctx), zap.Int32("item_id", input.ItemId))
	return nil
}

type Input struct {
	ItemId int32
	Data   item.OptionalData
}
