// Package engine runs queries expressed as logical plans: plans are
// optimized, lowered into executable operators and executed.
package engine

import (
	"context"
	stderrors "errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/google/uuid"
	"github.com/grafana/dskit/flagext"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/quarrydb/quarry/pkg/engine/internal/errors"
	"github.com/quarrydb/quarry/pkg/engine/internal/executor"
	"github.com/quarrydb/quarry/pkg/engine/internal/optimizer"
	"github.com/quarrydb/quarry/pkg/engine/internal/planner/logical"
	"github.com/quarrydb/quarry/pkg/engine/internal/planner/physical"
	utillog "github.com/quarrydb/quarry/pkg/util/log"
)

// ErrNotSupported is returned for plans containing operators that cannot be
// executed.
var ErrNotSupported = errors.ErrNotImplemented

var tracer = otel.Tracer("pkg/engine")

// ExecutorConfig configures query execution.
type ExecutorConfig struct {
	// BatchSize is the maximum number of rows per record read from tables.
	BatchSize int `yaml:"batch_size"`

	// CoalescePrefetchCount controls the number of partitions that are
	// prefetched while another partition is read by a coalescing operator.
	CoalescePrefetchCount int `yaml:"coalesce_prefetch_count"`
}

func (cfg *ExecutorConfig) RegisterFlagsWithPrefix(prefix string, f *flag.FlagSet) {
	f.IntVar(&cfg.BatchSize, prefix+"batch-size", 8192, "Maximum number of rows per record read from tables.")
	f.IntVar(&cfg.CoalescePrefetchCount, prefix+"coalesce-prefetch-count", 0, "The number of partitions that are prefetched while the current partition is read when partitions are coalesced. A value of 0 disables prefetching.")
}

// LogConfig configures the logger of processes embedding the engine.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func (cfg *LogConfig) RegisterFlagsWithPrefix(prefix string, f *flag.FlagSet) {
	f.StringVar(&cfg.Level, prefix+"level", "info", "Only log messages with the given severity or above. Valid levels: [debug, info, warn, error]")
	f.StringVar(&cfg.Format, prefix+"format", utillog.FormatLogfmt, "Output log messages in the given format. Valid formats: [logfmt, json]")
}

// NewLogger creates a logger writing to w as configured.
func (cfg *LogConfig) NewLogger(w io.Writer) (log.Logger, error) {
	return utillog.NewLogger(cfg.Format, cfg.Level, w)
}

// Config configures the Engine.
type Config struct {
	Log       LogConfig        `yaml:"log"`
	Optimizer optimizer.Config `yaml:"optimizer"`
	Executor  ExecutorConfig   `yaml:"executor"`
}

// RegisterFlags registers the flags of all engine components.
func (cfg *Config) RegisterFlags(f *flag.FlagSet) {
	cfg.Log.RegisterFlagsWithPrefix("log.", f)
	cfg.Optimizer.RegisterFlagsWithPrefix("optimizer.", f)
	cfg.Executor.RegisterFlagsWithPrefix("executor.", f)
}

// Validate validates the config.
func (cfg *Config) Validate() error {
	if _, err := cfg.Log.NewLogger(io.Discard); err != nil {
		return fmt.Errorf("invalid log config: %w", err)
	}
	if cfg.Executor.BatchSize <= 0 {
		return fmt.Errorf("invalid batch size for query engine. must be greater than 0, got %d", cfg.Executor.BatchSize)
	}
	if cfg.Executor.CoalescePrefetchCount < 0 {
		return fmt.Errorf("invalid coalesce prefetch count. must not be negative, got %d", cfg.Executor.CoalescePrefetchCount)
	}
	return nil
}

// DefaultConfig returns the config with the default value of every flag.
func DefaultConfig() Config {
	var cfg Config
	flagext.DefaultValues(&cfg)
	return cfg
}

// Params holds parameters for constructing a new [Engine].
type Params struct {
	Logger     log.Logger            // Logger for optional log messages.
	Registerer prometheus.Registerer // Registerer for optional metrics.

	Config Config // Config for the Engine.
}

// validate validates p and applies defaults.
func (p *Params) validate() error {
	if p.Logger == nil {
		p.Logger = log.NewNopLogger()
	}
	if p.Registerer == nil {
		p.Registerer = prometheus.NewRegistry()
	}
	return p.Config.Validate()
}

// Engine optimizes, plans and executes queries.
type Engine struct {
	logger  log.Logger
	metrics *metrics

	optimizer *optimizer.Optimizer
	planner   *physical.Planner
}

// New creates a new Engine.
func New(params Params) (*Engine, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	cfg := params.Config
	return &Engine{
		logger:  params.Logger,
		metrics: newMetrics(params.Registerer),

		optimizer: optimizer.New(cfg.Optimizer.Rules(params.Logger), params.Logger, params.Registerer),
		planner: physical.NewPlanner(physical.Options{
			BatchSize:        cfg.Executor.BatchSize,
			CoalescePrefetch: cfg.Executor.CoalescePrefetchCount,
		}),
	}, nil
}

// Optimize applies the enabled optimizer rules to p.
func (e *Engine) Optimize(ctx context.Context, p logical.Plan) (logical.Plan, error) {
	_, span := tracer.Start(ctx, "Engine.Optimize")
	defer span.End()

	timer := prometheus.NewTimer(e.metrics.logicalPlanning)
	defer timer.ObserveDuration()

	optimized, err := e.optimizer.Optimize(p)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to optimize logical plan")
		return nil, err
	}
	return optimized, nil
}

// Plan optimizes p and converts it into an executable plan. Plan returns
// [ErrNotSupported] if p contains operators that cannot be executed.
func (e *Engine) Plan(ctx context.Context, p logical.Plan) (executor.ExecutionPlan, error) {
	optimized, err := e.Optimize(ctx, p)
	if err != nil {
		return nil, err
	}
	return e.buildPhysicalPlan(ctx, optimized)
}

func (e *Engine) buildPhysicalPlan(ctx context.Context, p logical.Plan) (executor.ExecutionPlan, error) {
	_, span := tracer.Start(ctx, "Engine.buildPhysicalPlan")
	defer span.End()

	timer := prometheus.NewTimer(e.metrics.physicalPlanning)
	defer timer.ObserveDuration()

	plan, err := e.planner.Build(p)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to create physical plan")
		return nil, fmt.Errorf("creating physical plan: %w", err)
	}

	plan, err = e.planner.Optimize(plan)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to optimize physical plan")
		return nil, fmt.Errorf("optimizing physical plan: %w", err)
	}
	return plan, nil
}

// Execute runs p and returns all records it produces, ordered by output
// partition. The caller owns the returned records and must release them.
func (e *Engine) Execute(ctx context.Context, p logical.Plan) ([]arrow.Record, error) {
	startTime := time.Now()
	queryID := uuid.New()

	ctx, span := tracer.Start(ctx, "Engine.Execute")
	defer span.End()
	span.SetAttributes(attribute.String("query_id", queryID.String()))

	logger := log.With(e.logger, "query_id", queryID)
	level.Debug(logger).Log("msg", "starting query", "plan", logical.PrintAsTree(p))

	plan, err := e.Plan(ctx, p)
	if err != nil {
		e.observeQuery(startTime, err)
		level.Warn(logger).Log("msg", "failed to plan query", "err", err)
		span.SetStatus(codes.Error, "failed to plan query")
		return nil, err
	}
	level.Debug(logger).Log("msg", "finished planning", "plan", executor.FormatPlan(plan))

	records, err := executor.Collect(ctx, plan)
	if err != nil {
		e.observeQuery(startTime, err)
		level.Error(logger).Log("msg", "failed to execute query", "err", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to execute query")
		return nil, err
	}
	e.observeQuery(startTime, nil)

	var rows int64
	for _, rec := range records {
		rows += rec.NumRows()
	}
	level.Info(logger).Log(
		"msg", "finished executing",
		"partitions", plan.OutputPartitioning().PartitionCount(),
		"batches", len(records),
		"rows", rows,
		"duration", time.Since(startTime).String(),
	)

	span.SetStatus(codes.Ok, "")
	return records, nil
}

func (e *Engine) observeQuery(start time.Time, err error) {
	e.metrics.queryDuration.Observe(time.Since(start).Seconds())

	switch {
	case err == nil:
		e.metrics.queries.WithLabelValues(statusSuccess).Inc()
	case stderrors.Is(err, ErrNotSupported):
		e.metrics.queries.WithLabelValues(statusNotImplemented).Inc()
	default:
		e.metrics.queries.WithLabelValues(statusFailure).Inc()
	}
}

// Explain describes how p is executed: the plan as given, the optimized
// plan and, if p can be executed, the physical plan.
func (e *Engine) Explain(ctx context.Context, p logical.Plan) (string, error) {
	optimized, err := e.Optimize(ctx, p)
	if err != nil {
		return "", err
	}

	plans := []logical.StringifiedPlan{
		{Type: "logical_plan", Plan: logical.PrintAsTree(p)},
		{Type: "optimized_logical_plan", Plan: logical.PrintAsTree(optimized)},
	}

	physicalPlan, err := e.buildPhysicalPlan(ctx, optimized)
	switch {
	case err == nil:
		plans = append(plans, logical.StringifiedPlan{Type: "physical_plan", Plan: executor.FormatPlan(physicalPlan)})
	case stderrors.Is(err, ErrNotSupported):
		level.Debug(e.logger).Log("msg", "plan cannot be executed", "err", err)
	default:
		return "", err
	}

	var sb strings.Builder
	for _, plan := range plans {
		fmt.Fprintf(&sb, "%s:\n%s", plan.Type, plan.Plan)
	}
	return sb.String(), nil
}
