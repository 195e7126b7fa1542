package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/zap"
)

// ErrMeterNil is returned when a metrics recorder is built without a meter
var ErrMeterNil = errors.New("meter is nil")

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	Enabled           bool
	CollectorEndpoint string
	ExportInterval    time.Duration // Default: 60s
	ServiceName       string
	Insecure          bool
}

// MeterProvider wraps the OpenTelemetry MeterProvider with lifecycle management.
type MeterProvider struct {
	provider *sdkmetric.MeterProvider
	logger   *zap.Logger
	config   MetricsConfig
}

// NewMeterProvider creates and configures a new MeterProvider.
// If metrics are disabled, it returns a provider that wraps the no-op global meter.
func NewMeterProvider(ctx context.Context, cfg MetricsConfig, logger *zap.Logger) (*MeterProvider, error) {
	mp := &MeterProvider{
		logger: logger,
		config: cfg,
	}

	if !cfg.Enabled {
		logger.Info("Metrics disabled, using no-op meter provider")
		return mp, nil
	}

	exportInterval := cfg.ExportInterval
	if exportInterval == 0 {
		exportInterval = 60 * time.Second
	}

	exporterOpts := []otlpmetricgrpc.Option{
		otlpmetricgrpc.WithEndpoint(cfg.CollectorEndpoint),
	}
	if cfg.Insecure {
		exporterOpts = append(exporterOpts, otlpmetricgrpc.WithInsecure())
	}
	exporter, err := otlpmetricgrpc.New(ctx, exporterOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP metrics exporter: %w", err)
	}

	res, err := newResource(cfg.ServiceName)
	if err != nil {
		return nil, err
	}

	mp.provider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(
			sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(exportInterval)),
		),
	)
	otel.SetMeterProvider(mp.provider)

	logger.Info("OpenTelemetry MeterProvider initialized",
		zap.String("collector_endpoint", cfg.CollectorEndpoint),
		zap.Duration("export_interval", exportInterval),
	)
	return mp, nil
}

// Shutdown flushes pending metrics and stops the provider
func (mp *MeterProvider) Shutdown(ctx context.Context) error {
	if mp.provider == nil {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := mp.provider.Shutdown(shutdownCtx); err != nil {
		mp.logger.Error("Error shutting down meter provider", zap.Error(err))
		return fmt.Errorf("failed to shutdown meter provider: %w", err)
	}
	return nil
}

// Meter returns a named meter from the provider.
func (mp *MeterProvider) Meter(name string, opts ...metric.MeterOption) metric.Meter {
	if mp.provider == nil {
		return otel.GetMeterProvider().Meter(name, opts...)
	}
	return mp.provider.Meter(name, opts...)
}

// Metric attribute keys
var (
	AttrOrganizationID = attribute.Key("organization_id")
	AttrMovementType   = attribute.Key("movement_type")
	AttrFromStatus     = attribute.Key("from_status")
	AttrToStatus       = attribute.Key("to_status")
)

// CashflowMetrics records cash movement activity
type CashflowMetrics struct {
	created     metric.Int64Counter
	amount      metric.Float64Counter
	transitions metric.Int64Counter
	conflicts   metric.Int64Counter
	backfills   metric.Int64Counter
}

// NewCashflowMetrics registers the cash movement instruments on meter
func NewCashflowMetrics(meter metric.Meter) (*CashflowMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	created, err := meter.Int64Counter("cash_movement_created_total",
		metric.WithDescription("Number of cash movements created"),
		metric.WithUnit("{movement}"))
	if err != nil {
		return nil, fmt.Errorf("create counter: %w", err)
	}
	amount, err := meter.Float64Counter("cash_movement_amount_total",
		metric.WithDescription("Sum of created cash movement amounts"))
	if err != nil {
		return nil, fmt.Errorf("create counter: %w", err)
	}
	transitions, err := meter.Int64Counter("cash_movement_transition_total",
		metric.WithDescription("Number of applied status transitions"),
		metric.WithUnit("{transition}"))
	if err != nil {
		return nil, fmt.Errorf("create counter: %w", err)
	}
	conflicts, err := meter.Int64Counter("cash_movement_transition_conflict_total",
		metric.WithDescription("Number of rejected status transitions"),
		metric.WithUnit("{transition}"))
	if err != nil {
		return nil, fmt.Errorf("create counter: %w", err)
	}
	backfills, err := meter.Int64Counter("cash_movement_approval_backfill_total",
		metric.WithDescription("Deliveries that had to back-fill a missing approval stamp"))
	if err != nil {
		return nil, fmt.Errorf("create counter: %w", err)
	}

	return &CashflowMetrics{
		created:     created,
		amount:      amount,
		transitions: transitions,
		conflicts:   conflicts,
		backfills:   backfills,
	}, nil
}

// RecordCreated counts a created movement and its amount
func (m *CashflowMetrics) RecordCreated(ctx context.Context, organizationID, movementType string, amount float64) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(AttrOrganizationID.String(organizationID), AttrMovementType.String(movementType))
	m.created.Add(ctx, 1, attrs)
	m.amount.Add(ctx, amount, attrs)
}

// RecordTransition counts an applied status transition
func (m *CashflowMetrics) RecordTransition(ctx context.Context, organizationID, from, to string) {
	if m == nil {
		return
	}
	m.transitions.Add(ctx, 1, metric.WithAttributes(
		AttrOrganizationID.String(organizationID), AttrFromStatus.String(from), AttrToStatus.String(to)))
}

// RecordConflict counts a refused status transition
func (m *CashflowMetrics) RecordConflict(ctx context.Context, organizationID, to string) {
	if m == nil {
		return
	}
	m.conflicts.Add(ctx, 1, metric.WithAttributes(AttrOrganizationID.String(organizationID), AttrToStatus.String(to)))
}

// RecordBackfill counts a delivery that filled a missing approval stamp
func (m *CashflowMetrics) RecordBackfill(ctx context.Context, organizationID string) {
	if m == nil {
		return
	}
	m.backfills.Add(ctx, 1, metric.WithAttributes(AttrOrganizationID.String(organizationID)))
}
