package engine

import (
	"github.com/quarrydb/quarry/pkg/engine/internal/catalog"
	"github.com/quarrydb/quarry/pkg/engine/internal/executor"
	"github.com/quarrydb/quarry/pkg/engine/internal/planner/logical"
)

// Types used to describe queries and their data.
type (
	LogicalPlan   = logical.Plan
	PlanBuilder   = logical.Builder
	Expr          = logical.Expr
	JoinType      = logical.JoinType
	JoinPair      = logical.JoinPair
	TableProvider = logical.TableProvider
	Statistics    = logical.Statistics

	ExecutionPlan = executor.ExecutionPlan

	MemTable   = catalog.MemTable
	CSVOptions = catalog.CSVOptions
)

const (
	JoinTypeInner = logical.JoinTypeInner
	JoinTypeLeft  = logical.JoinTypeLeft
	JoinTypeRight = logical.JoinTypeRight
)

// Plan construction.
var (
	Scan  = logical.Scan
	Empty = logical.Empty
	Col   = logical.Col
	Lit   = logical.Lit

	NewMemTable = catalog.NewMemTable
	ReadCSV     = catalog.ReadCSV
	OpenCSV     = catalog.OpenCSV
)
