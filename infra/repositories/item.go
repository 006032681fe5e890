package repositories

import (
	"context"
	"math"
	"sync"

	"github.com/giovaniif/items/domain/item"
)

type Option func(*ItemRepositoryMemory)

// WithStrictMissing makes Update and Delete report item.ErrNotFound for an
// unknown id instead of succeeding silently.
func WithStrictMissing(strict bool) Option {
	return func(r *ItemRepositoryMemory) {
		r.strictMissing = strict
	}
}

// ItemRepositoryMemory keeps items in insertion order. Ids come from lastId,
// which only ever grows for the lifetime of the repository. Once it reaches
// math.MaxInt32 further creates fail with item.ErrIdsExhausted.
type ItemRepositoryMemory struct {
	mutex         sync.RWMutex
	lastId        int32
	items         []item.Item
	strictMissing bool
}

func NewItemRepositoryMemory(opts ...Option) *ItemRepositoryMemory {
	r := &ItemRepositoryMemory{
		items: []item.Item{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *ItemRepositoryMemory) GetAll(ctx context.Context) ([]item.Item, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	items := make([]item.Item, len(r.items))
	copy(items, r.items)
	return items, nil
}

func (r *ItemRepositoryMemory) GetById(ctx context.Context, id int32) (item.Item, bool, error) {
	if ctx.Err() != nil {
		return item.Item{}, false, ctx.Err()
	}
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	for _, it := range r.items {
		if it.Id == id {
			return it, true, nil
		}
	}
	return item.Item{}, false, nil
}

func (r *ItemRepositoryMemory) Create(ctx context.Context, data item.Data) (item.Item, error) {
	if ctx.Err() != nil {
		return item.Item{}, ctx.Err()
	}
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if r.lastId == math.MaxInt32 {
		return item.Item{}, item.ErrIdsExhausted
	}
	r.lastId++
	newItem := item.NewItem(r.lastId, data)
	r.items = append(r.items, newItem)
	return newItem, nil
}

func (r *ItemRepositoryMemory) Update(ctx context.Context, id int32, data item.OptionalData) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	r.mutex.Lock()
	defer r.mutex.Unlock()
	for i := range r.items {
		if r.items[i].Id == id {
			r.items[i] = r.items[i].Apply(data)
			return nil
		}
	}
	return r.missing(id)
}

func (r *ItemRepositoryMemory) Delete(ctx context.Context, id int32) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	r.mutex.Lock()
	defer r.mutex.Unlock()
	for i := range r.items {
		if r.items[i].Id == id {
			r.items = append(r.items[:i:i], r.items[i+1:]...)
			return nil
		}
	}
	return r.missing(id)
}

func (r *ItemRepositoryMemory) DeleteAll(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.items = []item.Item{}
	return nil
}

func (r *ItemRepositoryMemory) missing(id int32) error {
	if r.strictMissing {
		return item.NewNotFoundError(id)
	}
	return nil
}
