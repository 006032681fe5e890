package requestid

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestRoundTrip(t *testing.T) {
	ctx := NewContext(context.Background(), "abc")
	if got := FromContext(ctx); got != "abc" {
		t.Fatalf("expected abc, got %q", got)
	}
	if got := FromContext(context.Background()); got != "" {
		t.Fatalf("expected empty id, got %q", got)
	}
}

func TestGenerate(t *testing.T) {
	a, b := Generate(), Generate()
	if a == b {
		t.Fatalf("expected distinct ids, got %s twice", a)
	}
	if _, err := uuid.Parse(a); err != nil {
		t.Fatalf("expected a uuid, got %q: %v", a, err)
	}
}

func TestField(t *testing.T) {
	f := Field(NewContext(context.Background(), "abc"))
	if f.Key != "request_id" || f.String != "abc" {
		t.Fatalf("unexpected field %+v", f)
	}
}
