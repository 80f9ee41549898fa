package tracing

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
)

// InitTracer registers a global TracerProvider exporting over OTLP/gRPC and the W3C
// trace-context propagator. Call the returned func on shutdown to flush pending spans.
//
//	shutdown, err := tracing.InitTracer("artstore", log)
//	if err != nil { ... }
//	defer shutdown()
func InitTracer(serviceName string, log *slog.Logger) (func(), error) {
	// Why read the endpoint here and not from Config?
	// → OTEL_EXPORTER_OTLP_ENDPOINT is the collector's standard variable
	// → localhost:4317 matches a collector sidecar in docker-compose
	endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if endpoint == "" {
		endpoint = "localhost:4317"
	}

	log.Info("initializing opentelemetry tracer", slog.String("endpoint", endpoint))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Why WithInsecure?
	// → The collector runs next to the service, no TLS on that hop
	// → A TLS collector needs WithTLSCredentials here instead
	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP trace exporter: %w", err)
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(serviceName),
		semconv.ServiceVersion("v1.0.0"),
	)

	// Why WithBatcher?
	// → Spans are queued and exported in the background, a request never waits on the collector
	// → Unflushed spans are lost unless the returned shutdown func runs
	//
	// Why ParentBased sampler?
	// → An incoming traceparent decides: a sampled caller keeps the whole trace sampled
	// → Root spans (no caller) are always sampled
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.AlwaysSample())),
	)

	otel.SetTracerProvider(tp)
	// Why a global propagator?
	// → otelhttp and broker.InjectTraceContext both read otel.GetTextMapPropagator()
	// → W3C traceparent header, the same format the collector and browsers use
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Error("error shutting down tracer provider", slog.Any("error", err))
		}
	}, nil
}
