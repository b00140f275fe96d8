// Package telemetry configures OpenTelemetry tracing.
//
// Spans are exported over OTLP/gRPC when the standard OTEL_EXPORTER_OTLP_*
// environment variables name an endpoint. Otherwise the global no-op tracer
// provider is left in place.
package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/macropower/prompter/pkg/version"
)

// ServiceName is the service.name resource attribute.
const ServiceName = "prompter"

const sdkDisabledEnv = "OTEL_SDK_DISABLED"

var endpointEnvs = []string{
	"OTEL_EXPORTER_OTLP_TRACES_ENDPOINT",
	"OTEL_EXPORTER_OTLP_ENDPOINT",
}

// ShutdownFunc flushes and stops trace export.
type ShutdownFunc func(context.Context) error

// LookupFunc looks up an environment variable, like [os.LookupEnv].
type LookupFunc func(key string) (string, bool)

// Enabled reports whether trace export is configured.
func Enabled(lookup LookupFunc) bool {
	if v, ok := lookup(sdkDisabledEnv); ok && strings.EqualFold(strings.TrimSpace(v), "true") {
		return false
	}

	for _, key := range endpointEnvs {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return true
		}
	}

	return false
}

// Resource describes this process.
func Resource() *resource.Resource {
	return resource.NewSchemaless(
		attribute.String("service.name", ServiceName),
		attribute.String("service.version", version.GetVersion()),
	)
}

// NewTracerProvider creates a tracer provider that batches spans to
// exporter.
func NewTracerProvider(exporter sdktrace.SpanExporter) *sdktrace.TracerProvider {
	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(Resource()),
	)
}

// Setup installs a global tracer provider exporting over OTLP/gRPC when
// [Enabled] reports true for the process environment. The returned function
// must be called before exiting.
func Setup(ctx context.Context) (ShutdownFunc, error) {
	if !Enabled(os.LookupEnv) {
		return func(context.Context) error { return nil }, nil
	}

	exporter, err := otlptracegrpc.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("create trace exporter: %w", err)
	}

	tp := NewTracerProvider(exporter)
	otel.SetTracerProvider(tp)

	slog.Debug("trace export enabled")

	return func(ctx context.Context) error {
		err := tp.Shutdown(ctx)
		if err != nil {
			return fmt.Errorf("shutdown tracer provider: %w", err)
		}

		return nil
	}, nil
}
