package purge

import (
	"context"

	"go.uber.org/zap"

	"github.com/giovaniif/items/domain/item"
	"github.com/giovaniif/items/infra/requestid"
)

type Purge struct {
	itemRepository item.Repository
	logger         *zap.Logger
}

func NewPurge(itemRepository item.Repository, logger *zap.Logger) *Purge {
	return &Purge{
		itemRepository: itemRepository,
		logger:         logger,
	}
}

// Purge drops every item. Identifiers already issued are never handed out again.
func (p *Purge) Purge(ctx context.Context) error {
	err := p.itemRepository.DeleteAll(ctx)
	if err != nil {
		p.logger.Error("failed to delete all items", requestid.Field(ctx), zap.Error(err))
		return err
	}

	p.logger.Info("deleted all items", requestid.Field(ctx))
	return nil
}
