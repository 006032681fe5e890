package create

import (
	"context"

	"go.uber.org/zap"

	"github.com/giovaniif/items/domain/item"
	"github.com/giovaniif/items/infra/requestid"
)

type Create struct {
	itemRepository item.Repository
	logger         *zap.Logger
}

func NewCreate(itemRepository item.Repository, logger *zap.Logger) *Create {
	return &Create{
		itemRepository: itemRepository,
		logger:         logger,
	}
}

// Create validates the data before it reaches the repository, which trusts its input.
func (c *Create) Create(ctx context.Context, data item.Data) (item.Item, error) {
	if err := item.ValidateData(data); err != nil {
		c.logger.Warn("rejected item data", requestid.Field(ctx), zap.Error(err))
		return item.Item{}, err
	}

	created, err := c.itemRepository.Create(ctx, data)
	if err != nil {
		c.logger.Error("failed to create item", requestid.Field(ctx), zap.Error(err))
		return item.Item{}, err
	}

	c.logger.Info("created item",
		requestid.Field(ctx),
		zap.Int32("item_id", created.Id),
		zap.Float64("order", created.Order),
	)
	return created, nil
}
