package item

import "context"

type Repository interface {
	GetAll(ctx context.Context) ([]Item, error)
	GetById(ctx context.Context, id int32) (Item, bool, error)
	Create(ctx context.Context, data Data) (Item, error)
	Update(ctx context.Context, id int32, data OptionalData) error
	Delete(ctx context.Context, id int32) error
	DeleteAll(ctx context.Context) error
}
