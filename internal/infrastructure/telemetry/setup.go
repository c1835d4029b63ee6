package telemetry

import (
	"context"
	"errors"

	"github.com/storefront/backend/internal/infrastructure/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"
)

// Providers bundles every telemetry component started for the process.
type Providers struct {
	Tracer   *TracerProvider
	Meter    *MeterProvider
	Logs     *LoggerProvider
	Profiler *Profiler
	DB       *DBTracingPlugin
}

// Setup starts tracing, metrics, log export and profiling from configuration.
// Disabled components are returned as no-op providers, never nil.
func Setup(ctx context.Context, tcfg config.TelemetryConfig, pcfg config.ProfilingConfig, logger *zap.Logger) (*Providers, error) {
	p := &Providers{}
	var err error

	p.Tracer, err = NewTracerProvider(ctx, Config{
		Enabled:           tcfg.Enabled,
		CollectorEndpoint: tcfg.CollectorEndpoint,
		SamplingRatio:     tcfg.SamplingRatio,
		ServiceName:       tcfg.ServiceName,
		Insecure:          tcfg.Insecure,
	}, logger)
	if err != nil {
		return nil, err
	}

	p.Meter, err = NewMeterProvider(ctx, MetricsConfig{
		Enabled:           tcfg.Enabled && tcfg.MetricsEnabled,
		CollectorEndpoint: tcfg.CollectorEndpoint,
		ExportInterval:    tcfg.MetricsInterval,
		ServiceName:       tcfg.ServiceName,
		Insecure:          tcfg.Insecure,
	}, logger)
	if err != nil {
		_ = p.Shutdown(ctx)
		return nil, err
	}

	p.Logs, err = NewLoggerProvider(ctx, LogsConfig{
		Enabled:           tcfg.Enabled && tcfg.LogsEnabled,
		CollectorEndpoint: tcfg.CollectorEndpoint,
		ServiceName:       tcfg.ServiceName,
		Insecure:          tcfg.Insecure,
	}, logger)
	if err != nil {
		_ = p.Shutdown(ctx)
		return nil, err
	}

	p.Profiler, err = NewProfiler(ProfilerConfig{
		Enabled:           pcfg.Enabled,
		ServerAddress:     pcfg.ServerAddress,
		ApplicationName:   tcfg.ServiceName,
		BasicAuthUser:     pcfg.BasicAuthUser,
		BasicAuthPassword: pcfg.BasicAuthPassword,
	}, logger)
	if err != nil {
		_ = p.Shutdown(ctx)
		return nil, err
	}
	if p.Profiler.IsEnabled() {
		if err := p.Tracer.EnableSpanProfiles(); err != nil {
			logger.Warn("Failed to enable span profiles", zap.Error(err))
		}
	}

	p.DB = NewDBTracingPlugin(DBTracingConfig{
		Enabled:         tcfg.Enabled && tcfg.DBTraceEnabled,
		LogFullSQL:      tcfg.DBLogFullSQL,
		SlowQueryThresh: tcfg.DBSlowQueryThresh,
	}, logger)

	return p, nil
}

// InstrumentDB registers database tracing on db.
func (p *Providers) InstrumentDB(db *gorm.DB) error {
	return p.DB.Register(db)
}

// LogCore returns the OTLP log core to tee into the application logger.
func (p *Providers) LogCore(level zapcore.Level) zapcore.Core {
	return p.Logs.ZapCore(level)
}

// Shutdown stops every started component, flushing pending data.
func (p *Providers) Shutdown(ctx context.Context) error {
	var errs []error
	if p.Profiler != nil {
		errs = append(errs, p.Profiler.Stop())
	}
	if p.Logs != nil {
		errs = append(errs, p.Logs.Shutdown(ctx))
	}
	if p.Meter != nil {
		errs = append(errs, p.Meter.Shutdown(ctx))
	}
	if p.Tracer != nil {
		errs = append(errs, p.Tracer.Shutdown(ctx))
	}
	return errors.Join(errs...)
}
