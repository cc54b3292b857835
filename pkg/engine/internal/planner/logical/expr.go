package logical

import (
	"fmt"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/quarrydb/quarry/pkg/engine/internal/datatype"
	"github.com/quarrydb/quarry/pkg/engine/internal/errors"
)

// Expr is an expression attached to a plan node. Expressions are carried and
// printed by the planner; evaluating them is left to the operators that
// consume them.
type Expr interface {
	String() string
	isExpr()
}

var (
	_ Expr = (*ColumnExpr)(nil)
	_ Expr = (*LiteralExpr)(nil)
	_ Expr = (*BinaryExpr)(nil)
	_ Expr = (*AggregateExpr)(nil)
	_ Expr = (*SortExpr)(nil)
)

// ColumnExpr references a column of the input relation by name.
type ColumnExpr struct {
	Name string
}

// Col returns a reference to the column name.
func Col(name string) *ColumnExpr { return &ColumnExpr{Name: name} }

func (e *ColumnExpr) String() string { return "#" + e.Name }
func (e *ColumnExpr) isExpr()        {}

// LiteralExpr is a constant value.
type LiteralExpr struct {
	Value any
}

// Lit returns a literal expression holding v.
func Lit(v any) *LiteralExpr { return &LiteralExpr{Value: v} }

func (e *LiteralExpr) String() string {
	switch v := e.Value.(type) {
	case nil:
		return "NULL"
	case string:
		return fmt.Sprintf("%q", v)
	default:
		return fmt.Sprint(v)
	}
}
func (e *LiteralExpr) isExpr() {}

// BinaryOp is the operator of a [BinaryExpr].
type BinaryOp string

const (
	BinaryOpEq  BinaryOp = "="
	BinaryOpNeq BinaryOp = "!="
	BinaryOpLt  BinaryOp = "<"
	BinaryOpLte BinaryOp = "<="
	BinaryOpGt  BinaryOp = ">"
	BinaryOpGte BinaryOp = ">="
	BinaryOpAnd BinaryOp = "AND"
	BinaryOpOr  BinaryOp = "OR"
	BinaryOpAdd BinaryOp = "+"
	BinaryOpSub BinaryOp = "-"
	BinaryOpMul BinaryOp = "*"
	BinaryOpDiv BinaryOp = "/"
)

// IsPredicate reports whether the operator produces a boolean.
func (op BinaryOp) IsPredicate() bool {
	switch op {
	case BinaryOpEq, BinaryOpNeq, BinaryOpLt, BinaryOpLte, BinaryOpGt, BinaryOpGte, BinaryOpAnd, BinaryOpOr:
		return true
	default:
		return false
	}
}

// BinaryExpr applies Op to Left and Right.
type BinaryExpr struct {
	Left  Expr
	Right Expr
	Op    BinaryOp
}

func (e *BinaryExpr) String() string {
	return fmt.Sprintf("%s %s %s", e.Left, e.Op, e.Right)
}
func (e *BinaryExpr) isExpr() {}

// AggregateFunc is the function of an [AggregateExpr].
type AggregateFunc string

const (
	AggregateCount AggregateFunc = "COUNT"
	AggregateSum   AggregateFunc = "SUM"
	AggregateMin   AggregateFunc = "MIN"
	AggregateMax   AggregateFunc = "MAX"
	AggregateAvg   AggregateFunc = "AVG"
)

// AggregateExpr is an aggregate function over Arg.
type AggregateExpr struct {
	Func     AggregateFunc
	Arg      Expr
	Distinct bool
}

func (e *AggregateExpr) String() string {
	if e.Distinct {
		return fmt.Sprintf("%s(DISTINCT %s)", e.Func, e.Arg)
	}
	return fmt.Sprintf("%s(%s)", e.Func, e.Arg)
}
func (e *AggregateExpr) isExpr() {}

// SortExpr orders rows by Expr.
type SortExpr struct {
	Expr       Expr
	Ascending  bool
	NullsFirst bool
}

func (e *SortExpr) String() string {
	var sb strings.Builder
	sb.WriteString(e.Expr.String())
	if e.Ascending {
		sb.WriteString(" ASC")
	} else {
		sb.WriteString(" DESC")
	}
	if e.NullsFirst {
		sb.WriteString(" NULLS FIRST")
	} else {
		sb.WriteString(" NULLS LAST")
	}
	return sb.String()
}
func (e *SortExpr) isExpr() {}

// exprField derives the output field of expr evaluated against input.
func exprField(expr Expr, input *arrow.Schema) (arrow.Field, error) {
	switch e := expr.(type) {
	case *ColumnExpr:
		idx := input.FieldIndices(e.Name)
		if len(idx) == 0 {
			return arrow.Field{}, fmt.Errorf("%w: column %q not found in schema", errors.ErrKey, e.Name)
		}
		return input.Field(idx[0]), nil
	case *LiteralExpr:
		return arrow.Field{Name: e.String(), Type: literalType(e.Value), Nullable: e.Value == nil}, nil
	case *BinaryExpr:
		if e.Op.IsPredicate() {
			return arrow.Field{Name: e.String(), Type: datatype.Arrow.Bool, Nullable: true}, nil
		}
		left, err := exprField(e.Left, input)
		if err != nil {
			return arrow.Field{}, err
		}
		return arrow.Field{Name: e.String(), Type: left.Type, Nullable: true}, nil
	case *AggregateExpr:
		switch e.Func {
		case AggregateCount:
			return arrow.Field{Name: e.String(), Type: datatype.Arrow.Integer}, nil
		case AggregateAvg:
			return arrow.Field{Name: e.String(), Type: datatype.Arrow.Float, Nullable: true}, nil
		}
		arg, err := exprField(e.Arg, input)
		if err != nil {
			return arrow.Field{}, err
		}
		return arrow.Field{Name: e.String(), Type: arg.Type, Nullable: true}, nil
	case *SortExpr:
		return exprField(e.Expr, input)
	default:
		return arrow.Field{}, fmt.Errorf("%w: unsupported expression %T", errors.ErrType, expr)
	}
}

func literalType(v any) arrow.DataType {
	switch v.(type) {
	case bool:
		return datatype.Arrow.Bool
	case string:
		return datatype.Arrow.String
	case int, int32, int64, uint32, uint64:
		return datatype.Arrow.Integer
	case float32, float64:
		return datatype.Arrow.Float
	default:
		return datatype.Arrow.Null
	}
}
