package tracing

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/giovaniif/items/domain/item"
)

const (
	tracerName      = "items"
	defaultOTLPPort = "4318"
)

// Init installs the global tracer provider and returns a shutdown function.
// An empty endpoint leaves tracing disabled and returns nil.
func Init(serviceName, endpoint string) (func(), error) {
	if strings.TrimSpace(endpoint) == "" {
		return nil, nil
	}
	endpoint, err := otlpHostPort(strings.TrimSpace(endpoint))
	if err != nil {
		return nil, err
	}
	ctx := context.Background()
	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}
	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes("", semconv.ServiceNameKey.String(serviceName)),
	)
	if err != nil {
		return nil, err
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	return func() { _ = tp.Shutdown(ctx) }, nil
}

// otlpHostPort reduces an endpoint to the host:port otlptracehttp.WithEndpoint
// takes. Bare host:port values pass through; URLs lose scheme and path.
func otlpHostPort(endpoint string) (string, error) {
	if !strings.Contains(endpoint, "://") {
		return endpoint, nil
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("otlp endpoint %q: %w", endpoint, err)
	}
	if u.Hostname() == "" {
		return "", fmt.Errorf("otlp endpoint %q: missing host", endpoint)
	}
	port := u.Port()
	if port == "" {
		port = defaultOTLPPort
	}
	return net.JoinHostPort(u.Hostname(), port), nil
}

// ItemRepository opens one span per store call.
type ItemRepository struct {
	next   item.Repository
	tracer trace.Tracer
}

// NewItemRepository wraps next with spans from tp, or from the global
// provider when tp is nil.
func NewItemRepository(next item.Repository, tp trace.TracerProvider) *ItemRepository {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return &ItemRepository{next: next, tracer: tp.Tracer(tracerName)}
}

func (r *ItemRepository) start(ctx context.Context, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return r.tracer.Start(ctx, "items."+operation, trace.WithAttributes(attrs...))
}

func finish(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (r *ItemRepository) GetAll(ctx context.Context) ([]item.Item, error) {
	ctx, span := r.start(ctx, "GetAll")
	items, err := r.next.GetAll(ctx)
	span.SetAttributes(attribute.Int("items.count", len(items)))
	finish(span, err)
	return items, err
}

func (r *ItemRepository) GetById(ctx context.Context, id int32) (item.Item, bool, error) {
	ctx, span := r.start(ctx, "GetById", attribute.Int("item.id", int(id)))
	it, found, err := r.next.GetById(ctx, id)
	span.SetAttributes(attribute.Bool("item.found", found))
	finish(span, err)
	return it, found, err
}

func (r *ItemRepository) Create(ctx context.Context, data item.Data) (item.Item, error) {
	ctx, span := r.start(ctx, "Create")
	it, err := r.next.Create(ctx, data)
	if err == nil {
		span.SetAttributes(attribute.Int("item.id", int(it.Id)))
	}
	finish(span, err)
	return it, err
}

func (r *ItemRepository) Update(ctx context.Context, id int32, data item.OptionalData) error {
	ctx, span := r.start(ctx, "Update", attribute.Int("item.id", int(id)))
	err := r.next.Update(ctx, id, data)
	finish(span, err)
	return err
}

func (r *ItemRepository) Delete(ctx context.Context, id int32) error {
	ctx, span := r.start(ctx, "Delete", attribute.Int("item.id", int(id)))
	err := r.next.Delete(ctx, id)
	finish(span, err)
	return err
}

func (r *ItemRepository) DeleteAll(ctx context.Context) error {
	ctx, span := r.start(ctx, "DeleteAll")
	err := r.next.DeleteAll(ctx)
	finish(span, err)
	return err
}
