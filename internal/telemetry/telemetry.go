// Package telemetry wires optional OpenTelemetry traces and metrics around
// agent calls. The console owns the terminal, so the stdout exporters write
// to a file instead of os.Stdout.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"agentdesk/internal/config"
)

// ShutdownFunc flushes and stops the providers.
type ShutdownFunc func(context.Context) error

// Providers is what Init hands to the agent client.
type Providers struct {
	Tracer   trace.TracerProvider
	Meter    metric.MeterProvider
	Shutdown ShutdownFunc
}

// Noop returns providers that record nothing.
func Noop() *Providers {
	return &Providers{
		Tracer:   tracenoop.NewTracerProvider(),
		Meter:    metricnoop.NewMeterProvider(),
		Shutdown: func(context.Context) error { return nil },
	}
}

// Init builds providers for cfg. Inactive config yields Noop providers.
func Init(cfg config.TelemetryConfig, version string) (*Providers, error) {
	if !cfg.Active() {
		return Noop(), nil
	}

	switch cfg.Exporter {
	case config.ExporterStdout:
	default:
		return nil, fmt.Errorf("unknown telemetry exporter: %s", cfg.Exporter)
	}

	if cfg.File == "" {
		return nil, fmt.Errorf("telemetry file is required for the stdout exporter")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
		return nil, fmt.Errorf("failed to create telemetry directory: %w", err)
	}
	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open telemetry file: %w", err)
	}

	p, err := InitWithWriter(cfg.ServiceName, version, f)
	if err != nil {
		f.Close()
		return nil, err
	}
	shutdown := p.Shutdown
	p.Shutdown = func(ctx context.Context) error {
		err := shutdown(ctx)
		if cerr := f.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
		return err
	}
	return p, nil
}

// InitWithWriter builds stdout-exporter providers writing to w and installs
// them as the otel globals.
func InitWithWriter(serviceName, version string, w io.Writer) (*Providers, error) {
	if serviceName == "" {
		serviceName = "agentdesk"
	}
	res, err := resource.New(
		context.Background(),
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(version),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	traceExporter, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter, sdktrace.WithBatchTimeout(time.Second)),
		sdktrace.WithResource(res),
	)

	metricExporter, err := stdoutmetric.New(stdoutmetric.WithWriter(w))
	if err != nil {
		_ = tp.Shutdown(context.Background())
		return nil, fmt.Errorf("failed to create metric exporter: %w", err)
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter, sdkmetric.WithInterval(time.Minute))),
		sdkmetric.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	otel.SetMeterProvider(mp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return &Providers{
		Tracer: tp,
		Meter:  mp,
		Shutdown: func(ctx context.Context) error {
			var errs []error
			if err := tp.Shutdown(ctx); err != nil {
				errs = append(errs, err)
			}
			if err := mp.Shutdown(ctx); err != nil {
				errs = append(errs, err)
			}
			if len(errs) > 0 {
				return fmt.Errorf("telemetry shutdown errors: %w", errors.Join(errs...))
			}
			return nil
		},
	}, nil
}
