package optimizer

import (
	"flag"
	"fmt"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/quarrydb/quarry/pkg/engine/internal/planner/logical"
)

// Config configures the rules of the logical optimizer.
type Config struct {
	HashBuildProbeOrderEnabled bool `yaml:"hash_build_probe_order_enabled"`
	RemoveNoopFilterEnabled    bool `yaml:"remove_noop_filter_enabled"`

	// RecurseIntoJoins makes hash_build_probe_order also reorder joins nested
	// below other joins.
	RecurseIntoJoins bool `yaml:"recurse_into_joins"`
}

// RegisterFlagsWithPrefix registers the flags of the optimizer config.
func (cfg *Config) RegisterFlagsWithPrefix(prefix string, f *flag.FlagSet) {
	f.BoolVar(&cfg.HashBuildProbeOrderEnabled, prefix+"hash-build-probe-order-enabled", true, "Reorder hash joins so that the input with fewer rows becomes the build side. Only applies when exact row counts of both inputs are known.")
	f.BoolVar(&cfg.RemoveNoopFilterEnabled, prefix+"remove-noop-filter-enabled", true, "Remove filters whose predicate is the literal true.")
	f.BoolVar(&cfg.RecurseIntoJoins, prefix+"recurse-into-joins", false, "Also reorder joins that are inputs of other joins. By default only the outermost join of each join tree is considered.")
}

// Rules returns the rules enabled by cfg, in the order they are applied.
func (cfg Config) Rules(logger log.Logger) []Rule {
	var rules []Rule
	if cfg.RemoveNoopFilterEnabled {
		rules = append(rules, NewRemoveNoopFilter())
	}
	if cfg.HashBuildProbeOrderEnabled {
		r := NewHashBuildProbeOrder(logger)
		r.RecurseIntoJoins = cfg.RecurseIntoJoins
		rules = append(rules, r)
	}
	return rules
}

// Optimizer applies a fixed sequence of rules to logical plans. Each rule is
// applied exactly once per call to [Optimizer.Optimize].
type Optimizer struct {
	rules   []Rule
	logger  log.Logger
	metrics *metrics
}

// New creates a new Optimizer applying rules in order. logger and reg may be
// nil.
func New(rules []Rule, logger log.Logger, reg prometheus.Registerer) *Optimizer {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Optimizer{
		rules:   rules,
		logger:  logger,
		metrics: newMetrics(reg),
	}
}

// Rules returns the names of the rules of the optimizer in order.
func (o *Optimizer) Rules() []string {
	names := make([]string, len(o.rules))
	for i, r := range o.rules {
		names[i] = r.Name()
	}
	return names
}

// Optimize applies all rules to p. It stops at the first rule that fails.
func (o *Optimizer) Optimize(p logical.Plan) (logical.Plan, error) {
	for _, rule := range o.rules {
		start := time.Now()
		optimized, err := rule.Optimize(p)
		o.metrics.ruleDuration.WithLabelValues(rule.Name()).Observe(time.Since(start).Seconds())
		if err != nil {
			o.metrics.ruleRuns.WithLabelValues(rule.Name(), statusFailure).Inc()
			level.Warn(o.logger).Log("msg", "optimizer rule failed", "rule", rule.Name(), "err", err)
			return nil, fmt.Errorf("optimizer rule %s: %w", rule.Name(), err)
		}
		o.metrics.ruleRuns.WithLabelValues(rule.Name(), statusSuccess).Inc()
		p = optimized
	}
	return p, nil
}
