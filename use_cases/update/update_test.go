package update

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/giovaniif/items/domain/item"
)

type mockRepository struct {
	item.Repository
	updateErr error

	updateCalledWithId   int32
	updateCalledWithData item.OptionalData
	updateCalls          int
}

func (m *mockRepository) Update(ctx context.Context, id int32, data item.OptionalData) error {
	m.updateCalls++
	m.updateCalledWithId = id
	m.updateCalledWithData = data
	return m.updateErr
}

func TestUpdate_Success(t *testing.T) {
	repo := &mockRepository{}
	uc := NewUpdate(repo, zap.NewNop())

	done := true
	err := uc.Update(context.Background(), Input{ItemId: 3, Data: item.OptionalData{Completed: &done}})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if repo.updateCalledWithId != 3 {
		t.Fatalf("expected update called with 3, got %d", repo.updateCalledWithId)
	}
	if repo.updateCalledWithData.Completed == nil || !*repo.updateCalledWithData.Completed {
		t.Fatalf("expected completed patch to be forwarded, got %+v", repo.updateCalledWithData)
	}
}

func TestUpdate_InvalidPatch(t *testing.T) {
	repo := &mockRepository{}
	uc := NewUpdate(repo, zap.NewNop())

	empty := ""
	err := uc.Update(context.Background(), Input{ItemId: 3, Data: item.OptionalData{Title: &empty}})
	if !errors.Is(err, item.ErrInvalidData) {
		t.Fatalf("expected ErrInvalidData, got %v", err)
	}
	if repo.updateCalls != 0 {
		t.Fatalf("expected repository not to be called, got %d calls", repo.updateCalls)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	repo := &mockRepository{updateErr: item.NewNotFoundError(3)}
	uc := NewUpdate(repo, zap.NewNop())

	err := uc.Update(context.Background(), Input{ItemId: 3})
	if !errors.Is(err, item.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
