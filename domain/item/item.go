package item

import "sort"

type Item struct {
	Id        int32   `json:"id" validate:"gt=0"`
	Title     string  `json:"title" validate:"required"`
	Completed bool    `json:"completed"`
	Order     float64 `json:"order" validate:"finite"`
}

// Data is the caller-supplied shape used to create an Item.
type Data struct {
	Title     string   `json:"title" validate:"required"`
	Completed bool     `json:"completed"`
	Order     *float64 `json:"order,omitempty" validate:"omitempty,finite"`
}

// OptionalData is a partial update: nil fields keep the stored value.
type OptionalData struct {
	Title     *string  `json:"title,omitempty" validate:"omitempty,min=1"`
	Completed *bool    `json:"completed,omitempty"`
	Order     *float64 `json:"order,omitempty" validate:"omitempty,finite"`
}

// NewItem builds the stored record for a freshly assigned id.
// The order defaults to -id so newer items sort first.
func NewItem(id int32, data Data) Item {
	order := -float64(id)
	if data.Order != nil {
		order = *data.Order
	}
	return Item{
		Id:        id,
		Title:     data.Title,
		Completed: data.Completed,
		Order:     order,
	}
}

// Apply returns a copy of i with the present fields of patch overlaid.
func (i Item) Apply(patch OptionalData) Item {
	if patch.Title != nil {
		i.Title = *patch.Title
	}
	if patch.Completed != nil {
		i.Completed = *patch.Completed
	}
	if patch.Order != nil {
		i.Order = *patch.Order
	}
	return i
}

// SortByOrder sorts items by ascending order, keeping insertion order for ties.
func SortByOrder(items []Item) {
	sort.SliceStable(items, func(a, b int) bool {
		return items[a].Order < items[b].Order
	})
}
