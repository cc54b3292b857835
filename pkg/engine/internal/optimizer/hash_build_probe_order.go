package optimizer

import (
	"strconv"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/quarrydb/quarry/pkg/engine/internal/planner/logical"
)

// HashBuildProbeOrder reorders the inputs of joins so that the smaller input
// becomes the left (build) side of the hash join.
//
// The inputs of a join are only exchanged if the exact number of rows of
// both inputs is known and the left input is larger than the right one. If
// either count is unknown, the join is kept as written so that it can be
// ordered manually in the query.
//
// The inputs of a join node are not optimized themselves unless
// RecurseIntoJoins is set; all other nodes are optimized recursively.
type HashBuildProbeOrder struct {
	// RecurseIntoJoins makes the rule optimize the inputs of a join before
	// deciding on the order of the join.
	RecurseIntoJoins bool

	logger log.Logger
}

var _ Rule = (*HashBuildProbeOrder)(nil)

// NewHashBuildProbeOrder creates a new HashBuildProbeOrder rule. Decisions
// are logged at debug level to logger, which may be nil.
func NewHashBuildProbeOrder(logger log.Logger) *HashBuildProbeOrder {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &HashBuildProbeOrder{logger: logger}
}

// Name implements [Rule].
func (r *HashBuildProbeOrder) Name() string { return "hash_build_probe_order" }

// Optimize implements [Rule].
func (r *HashBuildProbeOrder) Optimize(p logical.Plan) (logical.Plan, error) {
	join, ok := p.(*logical.Join)
	if !ok {
		return optimizeInputs(p, r.Optimize)
	}

	left, right := join.Left, join.Right
	if r.RecurseIntoJoins {
		var err error
		if left, err = r.Optimize(left); err != nil {
			return nil, err
		}
		if right, err = r.Optimize(right); err != nil {
			return nil, err
		}
	}

	if r.shouldSwap(left, right) {
		on := make([]logical.JoinPair, len(join.On))
		for i, pair := range join.On {
			on[i] = pair.Swap()
		}
		return &logical.Join{
			Left:      right,
			Right:     left,
			On:        on,
			Type:      join.Type.Swap(),
			OutSchema: join.OutSchema,
		}, nil
	}

	if left == join.Left && right == join.Right {
		return join, nil
	}
	return &logical.Join{
		Left:      left,
		Right:     right,
		On:        join.On,
		Type:      join.Type,
		OutSchema: join.OutSchema,
	}, nil
}

// shouldSwap reports whether the inputs of a join should be exchanged.
func (r *HashBuildProbeOrder) shouldSwap(left, right logical.Plan) bool {
	leftRows, leftOk := numRows(left)
	rightRows, rightOk := numRows(right)
	swap := leftOk && rightOk && leftRows > rightRows

	level.Debug(r.logger).Log(
		"msg", "join build/probe order",
		"rule", r.Name(),
		"left_rows", formatRows(leftRows, leftOk),
		"right_rows", formatRows(rightRows, rightOk),
		"swap", swap,
	)
	return swap
}

func formatRows(rows uint64, ok bool) string {
	if !ok {
		return "unknown"
	}
	return strconv.FormatUint(rows, 10)
}
