package observability

import (
	"context"
	"fmt"
	"sync"
	"time"

	"nexus/config"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
)

// MetricsProvider manages OpenTelemetry metrics for the bot
type MetricsProvider struct {
	config        *config.Config
	meterProvider *sdkmetric.MeterProvider
	meter         metric.Meter
	initialized   bool
	mu            sync.RWMutex

	// Metric instruments
	messagesReadCounter          metric.Int64Counter
	commandsCounter              metric.Int64Counter
	commandErrorsCounter         metric.Int64Counter
	levelUpsCounter              metric.Int64Counter
	natsMessagesReceivedCounter  metric.Int64Counter
	natsMessagesPublishedCounter metric.Int64Counter
	balanceTransactionsCounter   metric.Int64Counter
	moderationActionsCounter     metric.Int64Counter
	mutesReleasedCounter         metric.Int64Counter
}

// NewMetricsProvider creates a new metrics provider
func NewMetricsProvider(cfg *config.Config) *MetricsProvider {
	return &MetricsProvider{
		config: cfg,
	}
}

// Initialize sets up the OpenTelemetry metrics provider
func (mp *MetricsProvider) Initialize(ctx context.Context) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.initialized {
		log.Debug("Metrics provider already initialized")
		return nil
	}

	if !mp.config.OTelEnabled {
		log.Info("OpenTelemetry metrics disabled")
		mp.initialized = true
		return nil
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(mp.config.OTelServiceName),
			attribute.String("environment", mp.config.Environment),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}

	var exporter sdkmetric.Exporter
	switch mp.config.OTelExporterType {
	case "console":
		exporter, err = stdoutmetric.New()
		if err != nil {
			return fmt.Errorf("failed to create console exporter: %w", err)
		}
		log.Info("Using console metric exporter")

	case "otlp":
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		exporter, err = otlpmetricgrpc.New(ctx,
			otlpmetricgrpc.WithEndpoint(mp.config.OTelOTLPEndpoint),
			otlpmetricgrpc.WithInsecure(),
		)
		if err != nil {
			return fmt.Errorf("failed to create OTLP exporter: %w", err)
		}
		log.WithField("endpoint", mp.config.OTelOTLPEndpoint).Info("Using OTLP metric exporter")

	case "none":
		log.Info("Metrics export disabled (exporter_type='none')")
		mp.initialized = true
		return nil

	default:
		return fmt.Errorf("unknown exporter type: %s", mp.config.OTelExporterType)
	}

	mp.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(
			sdkmetric.NewPeriodicReader(
				exporter,
				sdkmetric.WithInterval(time.Duration(mp.config.OTelExportIntervalMillis)*time.Millisecond),
			),
		),
	)

	otel.SetMeterProvider(mp.meterProvider)
	mp.meter = mp.meterProvider.Meter("nexus")

	if err := mp.createInstruments(); err != nil {
		return fmt.Errorf("failed to create instruments: %w", err)
	}

	mp.initialized = true
	log.Info("Metrics provider initialized successfully")
	return nil
}

func (mp *MetricsProvider) counter(name, description string) (metric.Int64Counter, error) {
	c, err := mp.meter.Int64Counter(name, metric.WithDescription(description), metric.WithUnit("1"))
	if err != nil {
		return nil, fmt.Errorf("failed to create counter %s: %w", name, err)
	}
	return c, nil
}

// createInstruments creates all metric instruments
func (mp *MetricsProvider) createInstruments() error {
	var err error

	if mp.messagesReadCounter, err = mp.counter(MessagesReadTotal, "Total number of Discord messages read"); err != nil {
		return err
	}
	if mp.commandsCounter, err = mp.counter(CommandsTotal, "Total number of slash commands handled"); err != nil {
		return err
	}
	if mp.commandErrorsCounter, err = mp.counter(CommandErrorsTotal, "Total number of slash commands answered with an error"); err != nil {
		return err
	}
	if mp.levelUpsCounter, err = mp.counter(LevelUpsTotal, "Total number of level ups"); err != nil {
		return err
	}
	if mp.natsMessagesReceivedCounter, err = mp.counter(NATSMessagesReceivedTotal, "Total number of NATS messages received"); err != nil {
		return err
	}
	if mp.natsMessagesPublishedCounter, err = mp.counter(NATSMessagesPublishedTotal, "Total number of NATS messages published"); err != nil {
		return err
	}
	if mp.balanceTransactionsCounter, err = mp.counter(BalanceTransactionsTotal, "Total number of balance transactions"); err != nil {
		return err
	}
	if mp.moderationActionsCounter, err = mp.counter(ModerationActionsTotal, "Total number of moderation actions"); err != nil {
		return err
	}
	if mp.mutesReleasedCounter, err = mp.counter(MutesReleasedTotal, "Total number of expired mutes lifted by the sweep"); err != nil {
		return err
	}

	return nil
}

// Shutdown gracefully shuts down the metrics provider
func (mp *MetricsProvider) Shutdown(ctx context.Context) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.meterProvider != nil {
		return mp.meterProvider.Shutdown(ctx)
	}
	return nil
}

func add(counter metric.Int64Counter, key, value string) {
	counter.Add(context.Background(), 1, metric.WithAttributes(attribute.String(key, value)))
}

// RecordMessageRead records a Discord message being read
func (mp *MetricsProvider) RecordMessageRead(messageType string) {
	if !mp.isEnabled() {
		return
	}
	add(mp.messagesReadCounter, LabelType, messageType)
}

// RecordCommand records a handled slash command
func (mp *MetricsProvider) RecordCommand(command string) {
	if !mp.isEnabled() {
		return
	}
	add(mp.commandsCounter, LabelCommand, command)
}

// RecordCommandError records a slash command that ended in an error reply
func (mp *MetricsProvider) RecordCommandError(command, errorType string) {
	if !mp.isEnabled() {
		return
	}
	mp.commandErrorsCounter.Add(context.Background(), 1,
		metric.WithAttributes(
			attribute.String(LabelCommand, command),
			attribute.String(LabelErrorType, errorType),
		),
	)
}

// RecordLevelUp records a level up
func (mp *MetricsProvider) RecordLevelUp() {
	if !mp.isEnabled() {
		return
	}
	mp.levelUpsCounter.Add(context.Background(), 1)
}

// RecordNATSMessageReceived records a NATS message being received
func (mp *MetricsProvider) RecordNATSMessageReceived(eventType string) {
	if !mp.isEnabled() {
		return
	}
	add(mp.natsMessagesReceivedCounter, LabelEventType, eventType)
}

// RecordNATSMessagePublished records a NATS message being published
func (mp *MetricsProvider) RecordNATSMessagePublished(eventType string) {
	if !mp.isEnabled() {
		return
	}
	add(mp.natsMessagesPublishedCounter, LabelEventType, eventType)
}

// RecordBalanceTransaction records a balance transaction
func (mp *MetricsProvider) RecordBalanceTransaction(transactionType string) {
	if !mp.isEnabled() {
		return
	}
	add(mp.balanceTransactionsCounter, LabelType, transactionType)
}

// RecordModerationAction records a moderation action
func (mp *MetricsProvider) RecordModerationAction(action string) {
	if !mp.isEnabled() {
		return
	}
	add(mp.moderationActionsCounter, LabelAction, action)
}

// RecordMutesReleased records expired mutes lifted by one sweep
func (mp *MetricsProvider) RecordMutesReleased(count int) {
	if !mp.isEnabled() || count == 0 {
		return
	}
	mp.mutesReleasedCounter.Add(context.Background(), int64(count))
}

// isEnabled checks if metrics are enabled and instruments exist
func (mp *MetricsProvider) isEnabled() bool {
	if mp == nil {
		return false
	}
	mp.mu.RLock()
	defer mp.mu.RUnlock()
	return mp.initialized && mp.config.OTelEnabled && mp.meter != nil
}

// Global metrics provider instance
var (
	globalMetrics *MetricsProvider
	metricsOnce   sync.Once
)

// InitializeGlobalMetrics initializes the global metrics provider
func InitializeGlobalMetrics(ctx context.Context, cfg *config.Config) error {
	var err error
	metricsOnce.Do(func() {
		globalMetrics = NewMetricsProvider(cfg)
		err = globalMetrics.Initialize(ctx)
	})
	return err
}

// GetMetrics returns the global metrics provider. The result is nil-safe.
func GetMetrics() *MetricsProvider {
	return globalMetrics
}

// ShutdownGlobalMetrics shuts down the global metrics provider
func ShutdownGlobalMetrics(ctx context.Context) error {
	if globalMetrics != nil {
		return globalMetrics.Shutdown(ctx)
	}
	return nil
}
