package optimizer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quarrydb/quarry/pkg/engine/internal/planner/logical"
)

func TestHashBuildProbeOrder_Name(t *testing.T) {
	require.Equal(t, "hash_build_probe_order", NewHashBuildProbeOrder(nil).Name())
}

func TestHashBuildProbeOrder_SwapsLargerLeftInput(t *testing.T) {
	left := scan(t, "l", "a", logical.ExactRows(100))
	right := scan(t, "r", "b", logical.ExactRows(10))
	j := join(t, left, right, logical.JoinTypeLeft, logical.JoinPair{Left: "a", Right: "b"})

	out, err := NewHashBuildProbeOrder(nil).Optimize(j)
	require.NoError(t, err)

	swapped, ok := out.(*logical.Join)
	require.True(t, ok)
	require.Same(t, right, swapped.Left)
	require.Same(t, left, swapped.Right)
	require.Equal(t, []logical.JoinPair{{Left: "b", Right: "a"}}, swapped.On)
	require.Equal(t, logical.JoinTypeRight, swapped.Type)
	require.Same(t, j.Schema(), swapped.Schema())

	leftRows, ok := numRows(swapped.Left)
	require.True(t, ok)
	require.Equal(t, uint64(10), leftRows)
	rightRows, ok := numRows(swapped.Right)
	require.True(t, ok)
	require.Equal(t, uint64(100), rightRows)

	// The original join is left untouched.
	require.Same(t, left, j.Left)
	require.Equal(t, []logical.JoinPair{{Left: "a", Right: "b"}}, j.On)
	require.Equal(t, logical.JoinTypeLeft, j.Type)
}

func TestHashBuildProbeOrder_JoinTypes(t *testing.T) {
	tests := []struct {
		in, want logical.JoinType
	}{
		{logical.JoinTypeInner, logical.JoinTypeInner},
		{logical.JoinTypeLeft, logical.JoinTypeRight},
		{logical.JoinTypeRight, logical.JoinTypeLeft},
	}
	for _, tt := range tests {
		t.Run(tt.in.String(), func(t *testing.T) {
			j := join(t,
				scan(t, "l", "a", logical.ExactRows(2)),
				scan(t, "r", "b", logical.ExactRows(1)),
				tt.in, logical.JoinPair{Left: "a", Right: "b"},
			)
			out, err := NewHashBuildProbeOrder(nil).Optimize(j)
			require.NoError(t, err)
			require.Equal(t, tt.want, out.(*logical.Join).Type)
		})
	}
}

func TestHashBuildProbeOrder_SwapsEveryPairInOrder(t *testing.T) {
	lt := &statsTable{schema: usersLike(), stats: logical.ExactRows(20)}
	rt := &statsTable{schema: ordersLike(), stats: logical.ExactRows(3)}
	left, err := logical.Scan("l", lt, nil).Build()
	require.NoError(t, err)
	right, err := logical.Scan("r", rt, nil).Build()
	require.NoError(t, err)

	j := join(t, left, right, logical.JoinTypeInner,
		logical.JoinPair{Left: "id", Right: "user_id"},
		logical.JoinPair{Left: "region", Right: "order_region"},
	)
	out, err := NewHashBuildProbeOrder(nil).Optimize(j)
	require.NoError(t, err)
	require.Equal(t, []logical.JoinPair{
		{Left: "user_id", Right: "id"},
		{Left: "order_region", Right: "region"},
	}, out.(*logical.Join).On)
}

func TestHashBuildProbeOrder_KeepsOrder(t *testing.T) {
	tests := []struct {
		name        string
		left, right logical.Statistics
	}{
		{name: "left smaller", left: logical.ExactRows(10), right: logical.ExactRows(100)},
		{name: "equal", left: logical.ExactRows(10), right: logical.ExactRows(10)},
		{name: "both empty", left: logical.ExactRows(0), right: logical.ExactRows(0)},
		{name: "left unknown", left: unknown, right: logical.ExactRows(1)},
		{name: "right unknown", left: logical.ExactRows(1_000_000), right: unknown},
		{name: "both unknown", left: unknown, right: unknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j := join(t,
				scan(t, "l", "a", tt.left),
				scan(t, "r", "b", tt.right),
				logical.JoinTypeLeft, logical.JoinPair{Left: "a", Right: "b"},
			)
			out, err := NewHashBuildProbeOrder(nil).Optimize(j)
			require.NoError(t, err)

			kept := out.(*logical.Join)
			require.Same(t, j.Left, kept.Left)
			require.Same(t, j.Right, kept.Right)
			require.Equal(t, j.On, kept.On)
			require.Equal(t, j.Type, kept.Type)
		})
	}
}

func TestHashBuildProbeOrder_UsesDerivedRowCounts(t *testing.T) {
	big := scan(t, "big", "a", logical.ExactRows(1000))
	small := scan(t, "small", "b", logical.ExactRows(50))

	// A limit of 10 makes the left input smaller than the right input.
	limited, err := logical.NewBuilder(big).Limit(10).Project(logical.Col("a")).Build()
	require.NoError(t, err)
	j := join(t, limited, small, logical.JoinTypeInner, logical.JoinPair{Left: "a", Right: "b"})
	out, err := NewHashBuildProbeOrder(nil).Optimize(j)
	require.NoError(t, err)
	require.Same(t, limited, out.(*logical.Join).Left)

	// A filter hides the row count, so nothing is swapped.
	filtered, err := logical.NewBuilder(big).Filter(logical.Lit(false)).Build()
	require.NoError(t, err)
	j = join(t, filtered, small, logical.JoinTypeInner, logical.JoinPair{Left: "a", Right: "b"})
	out, err = NewHashBuildProbeOrder(nil).Optimize(j)
	require.NoError(t, err)
	require.Same(t, filtered, out.(*logical.Join).Left)
}

func TestHashBuildProbeOrder_Idempotent(t *testing.T) {
	r := NewHashBuildProbeOrder(nil)
	inner := join(t,
		scan(t, "a", "a", logical.ExactRows(7)),
		scan(t, "b", "b", logical.ExactRows(3)),
		logical.JoinTypeRight, logical.JoinPair{Left: "a", Right: "b"},
	)
	p, err := logical.NewBuilder(inner).Project(logical.Col("a"), logical.Col("b")).Limit(3).Build()
	require.NoError(t, err)

	once, err := r.Optimize(p)
	require.NoError(t, err)
	twice, err := r.Optimize(once)
	require.NoError(t, err)

	require.NotEqual(t, logical.PrintAsTree(p), logical.PrintAsTree(once))
	require.Equal(t, logical.PrintAsTree(once), logical.PrintAsTree(twice))
}

func TestHashBuildProbeOrder_RecursesIntoOtherNodes(t *testing.T) {
	j := join(t,
		scan(t, "l", "a", logical.ExactRows(100)),
		scan(t, "r", "b", logical.ExactRows(10)),
		logical.JoinTypeInner, logical.JoinPair{Left: "a", Right: "b"},
	)
	sortExpr := &logical.SortExpr{Expr: logical.Col("a"), Ascending: true}
	p, err := logical.NewBuilder(j).
		Project(logical.Col("a"), logical.Col("b")).
		Sort(sortExpr).
		Limit(5).
		Build()
	require.NoError(t, err)

	out, err := NewHashBuildProbeOrder(nil).Optimize(p)
	require.NoError(t, err)

	expected := `Limit n=5
└── Sort exprs=(#a ASC NULLS LAST)
    └── Projection exprs=(#a, #b)
        └── Join type=Inner on=(b = a)
            ├── TableScan table=r
            └── TableScan table=l
`
	require.Equal(t, expected, logical.PrintAsTree(out))
	require.True(t, p.Schema().Equal(out.Schema()))

	// Non-child attributes are carried over.
	limit := out.(*logical.Limit)
	require.Equal(t, uint64(5), limit.N)
	sort := limit.Input.(*logical.Sort)
	require.Same(t, sortExpr, sort.Exprs[0])
}

func TestHashBuildProbeOrder_UnionInputs(t *testing.T) {
	j := func() logical.Plan {
		return join(t,
			scan(t, "l", "a", logical.ExactRows(100)),
			scan(t, "r", "a", logical.ExactRows(10)),
			logical.JoinTypeLeft, logical.JoinPair{Left: "a", Right: "a"},
		)
	}
	p, err := logical.NewBuilder(j()).Union(j()).Build()
	require.NoError(t, err)

	out, err := NewHashBuildProbeOrder(nil).Optimize(p)
	require.NoError(t, err)
	for _, input := range logical.Inputs(out) {
		require.Equal(t, logical.JoinTypeRight, input.(*logical.Join).Type)
	}
}

func TestHashBuildProbeOrder_NestedJoins(t *testing.T) {
	nested := join(t,
		scan(t, "big", "a", logical.ExactRows(1000)),
		scan(t, "small", "b", logical.ExactRows(1)),
		logical.JoinTypeInner, logical.JoinPair{Left: "a", Right: "b"},
	)
	outer := join(t, nested, scan(t, "other", "c", logical.ExactRows(5)),
		logical.JoinTypeLeft, logical.JoinPair{Left: "a", Right: "c"},
	)

	t.Run("shallow by default", func(t *testing.T) {
		out, err := NewHashBuildProbeOrder(nil).Optimize(outer)
		require.NoError(t, err)

		// The row count of a join is unknown, so the outer join is kept, and
		// the nested join is not visited.
		require.Same(t, outer, out)
		require.Same(t, nested, out.(*logical.Join).Left)
	})

	t.Run("recurse into joins", func(t *testing.T) {
		r := NewHashBuildProbeOrder(nil)
		r.RecurseIntoJoins = true
		out, err := r.Optimize(outer)
		require.NoError(t, err)

		expected := `Join type=Left on=(a = c)
├── Join type=Inner on=(b = a)
│   ├── TableScan table=small
│   └── TableScan table=big
└── TableScan table=other
`
		require.Equal(t, expected, logical.PrintAsTree(out))
		require.True(t, outer.Schema().Equal(out.Schema()))
	})
}
