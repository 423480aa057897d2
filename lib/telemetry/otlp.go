package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

const (
	ProtocolHttp = "http"
	ProtocolGrpc = "grpc"
)

// Exporter is an otlp collector one signal is sent to.
type Exporter struct {
	// "http" or "grpc", if unspecified, "http"
	Protocol string            `json:"protocol"`
	Endpoint string            `json:"endpoint"`
	Headers  map[string]string `json:"headers"`
}

func (e Exporter) Enabled() bool {
	return e.Endpoint != ""
}

func (e Exporter) protocol() (string, error) {
	switch strings.ToLower(strings.TrimSpace(e.Protocol)) {
	case "", ProtocolHttp:
		return ProtocolHttp, nil
	case ProtocolGrpc:
		return ProtocolGrpc, nil
	default:
		return "", fmt.Errorf("unknown otlp protocol '%s'", e.Protocol)
	}
}

// Config is the telemetry section of a service config. A signal without
// an endpoint is not exported.
type Config struct {
	Traces  Exporter `json:"traces"`
	Metrics Exporter `json:"metrics"`
	// if unspecified, 15
	MetricIntervalSeconds int `json:"metric_interval_seconds"`
}

func (c Config) Enabled() bool {
	return c.Traces.Enabled() || c.Metrics.Enabled()
}

func (c Config) metricInterval() time.Duration {
	if c.MetricIntervalSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.MetricIntervalSeconds) * time.Second
}

func newResource(serviceName string) (*resource.Resource, error) {
	return resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
		),
	)
}

func newTraceProvider(ctx context.Context, r *resource.Resource, e Exporter) (*trace.TracerProvider, error) {
	protocol, err := e.protocol()
	if err != nil {
		return nil, fmt.Errorf("traces: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*3)
	defer cancel()

	var exporter trace.SpanExporter
	switch protocol {
	case ProtocolGrpc:
		exporter, err = otlptracegrpc.New(
			ctx,
			otlptracegrpc.WithEndpointURL(e.Endpoint),
			otlptracegrpc.WithHeaders(e.Headers),
		)
	default:
		exporter, err = otlptracehttp.New(
			ctx,
			otlptracehttp.WithEndpointURL(e.Endpoint),
			otlptracehttp.WithHeaders(e.Headers),
		)
	}
	if err != nil {
		return nil, fmt.Errorf("traces: %w", err)
	}
	slog.InfoContext(ctx, "exporting traces", "protocol", protocol, "endpoint", e.Endpoint, "headers", len(e.Headers) > 0)

	return trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(r),
	), nil
}

func newMetricProvider(ctx context.Context, r *resource.Resource, e Exporter, interval time.Duration) (*metric.MeterProvider, error) {
	protocol, err := e.protocol()
	if err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*3)
	defer cancel()

	var exporter metric.Exporter
	switch protocol {
	case ProtocolGrpc:
		exporter, err = otlpmetricgrpc.New(
			ctx,
			otlpmetricgrpc.WithEndpointURL(e.Endpoint),
			otlpmetricgrpc.WithHeaders(e.Headers),
		)
	default:
		exporter, err = otlpmetrichttp.New(
			ctx,
			otlpmetrichttp.WithEndpointURL(e.Endpoint),
			otlpmetrichttp.WithHeaders(e.Headers),
		)
	}
	if err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}
	slog.InfoContext(ctx, "exporting metrics", "protocol", protocol, "endpoint", e.Endpoint, "interval", interval)

	return metric.NewMeterProvider(
		metric.WithReader(metric.NewPeriodicReader(exporter, metric.WithInterval(interval))),
		metric.WithResource(r),
	), nil
}
