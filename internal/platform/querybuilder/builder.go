// Package querybuilder assembles parameterized Postgres statements with a
// small fluent API. It covers the shapes the repositories need and nothing
// more; anything fancier is written as raw SQL at the call site.
package querybuilder

import (
	"fmt"
	"strconv"
	"strings"
)

// argList collects positional arguments while a statement is rendered.
type argList struct {
	values []any
}

func (a *argList) add(v any) string {
	a.values = append(a.values, v)
	return "$" + strconv.Itoa(len(a.values))
}

// bind rewrites '?' markers in expr against the collected args.
func (a *argList) bind(expr string, exprArgs []any) string {
	if len(exprArgs) == 0 {
		return expr
	}

	var out strings.Builder
	next := 0
	for i := 0; i < len(expr); i++ {
		if expr[i] == '?' && next < len(exprArgs) {
			out.WriteString(a.add(exprArgs[next]))
			next++
			continue
		}
		out.WriteByte(expr[i])
	}
	return out.String()
}

// Cond renders one WHERE predicate.
type Cond interface {
	render(args *argList) string
}

type eqCond struct {
	column string
	value  any
}

func Eq(column string, value any) Cond {
	return eqCond{column: column, value: value}
}

func (c eqCond) render(args *argList) string {
	return c.column + " = " + args.add(c.value)
}

type inCond struct {
	column string
	values []any
}

func In(column string, values []any) Cond {
	return inCond{column: column, values: values}
}

func (c inCond) render(args *argList) string {
	if len(c.values) == 0 {
		return "1=0"
	}

	parts := make([]string, 0, len(c.values))
	for _, v := range c.values {
		parts = append(parts, args.add(v))
	}
	return c.column + " IN (" + strings.Join(parts, ", ") + ")"
}

type isNullCond struct{ column string }

func IsNull(column string) Cond {
	return isNullCond{column: column}
}

func (c isNullCond) render(*argList) string {
	return c.column + " IS NULL"
}

type notNullCond struct{ column string }

func NotNull(column string) Cond {
	return notNullCond{column: column}
}

func (c notNullCond) render(*argList) string {
	return c.column + " IS NOT NULL"
}

type exprCond struct {
	expr string
	args []any
}

// Expr is an escape hatch for predicates the typed conditions do not cover.
// '?' markers bind positionally.
func Expr(expr string, exprArgs ...any) Cond {
	return exprCond{expr: expr, args: exprArgs}
}

func (c exprCond) render(args *argList) string {
	return args.bind(c.expr, c.args)
}

type SelectBuilder struct {
	columns []string
	table   string
	where   []Cond
	groupBy []string
	orderBy []string
	limit   int
	offset  int
}

func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{columns: append([]string(nil), columns...)}
}

func (b *SelectBuilder) From(table string) *SelectBuilder {
	b.table = table
	return b
}

func (b *SelectBuilder) Where(conds ...Cond) *SelectBuilder {
	b.where = append(b.where, conds...)
	return b
}

func (b *SelectBuilder) GroupBy(parts ...string) *SelectBuilder {
	b.groupBy = append(b.groupBy, parts...)
	return b
}

func (b *SelectBuilder) OrderBy(parts ...string) *SelectBuilder {
	b.orderBy = append(b.orderBy, parts...)
	return b
}

func (b *SelectBuilder) Limit(limit int) *SelectBuilder {
	b.limit = limit
	return b
}

func (b *SelectBuilder) Offset(offset int) *SelectBuilder {
	b.offset = offset
	return b
}

func (b *SelectBuilder) ToSQL() (string, []any, error) {
	if len(b.columns) == 0 {
		return "", nil, fmt.Errorf("select columns are required")
	}
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("select table is required")
	}

	var buf strings.Builder
	args := &argList{}

	buf.WriteString("SELECT ")
	buf.WriteString(strings.Join(b.columns, ", "))
	buf.WriteString(" FROM ")
	buf.WriteString(b.table)
	writeWhere(&buf, b.where, args)
	if len(b.groupBy) > 0 {
		buf.WriteString(" GROUP BY ")
		buf.WriteString(strings.Join(b.groupBy, ", "))
	}
	if len(b.orderBy) > 0 {
		buf.WriteString(" ORDER BY ")
		buf.WriteString(strings.Join(b.orderBy, ", "))
	}
	if b.limit > 0 {
		buf.WriteString(" LIMIT ")
		buf.WriteString(strconv.Itoa(b.limit))
	}
	if b.offset > 0 {
		buf.WriteString(" OFFSET ")
		buf.WriteString(strconv.Itoa(b.offset))
	}

	return buf.String(), args.values, nil
}

type InsertBuilder struct {
	table   string
	columns []string
	rows    [][]any
	suffix  string
}

func InsertInto(table string) *InsertBuilder {
	return &InsertBuilder{table: table}
}

func (b *InsertBuilder) Columns(columns ...string) *InsertBuilder {
	b.columns = append([]string(nil), columns...)
	return b
}

func (b *InsertBuilder) Values(values ...any) *InsertBuilder {
	b.rows = append(b.rows, append([]any(nil), values...))
	return b
}

// Suffix appends trailing SQL such as an ON CONFLICT clause or RETURNING.
func (b *InsertBuilder) Suffix(sql string) *InsertBuilder {
	b.suffix = strings.TrimSpace(sql)
	return b
}

func (b *InsertBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("insert table is required")
	}
	if len(b.columns) == 0 {
		return "", nil, fmt.Errorf("insert columns are required")
	}
	if len(b.rows) == 0 {
		return "", nil, fmt.Errorf("insert values are required")
	}

	var buf strings.Builder
	args := &argList{}

	buf.WriteString("INSERT INTO ")
	buf.WriteString(b.table)
	buf.WriteString(" (")
	buf.WriteString(strings.Join(b.columns, ", "))
	buf.WriteString(") VALUES ")

	for rowIdx, row := range b.rows {
		if len(row) != len(b.columns) {
			return "", nil, fmt.Errorf("insert row %d has %d values, expected %d", rowIdx, len(row), len(b.columns))
		}
		if rowIdx > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString("(")
		for colIdx, value := range row {
			if colIdx > 0 {
				buf.WriteString(", ")
			}
			buf.WriteString(args.add(value))
		}
		buf.WriteString(")")
	}

	if b.suffix != "" {
		buf.WriteString(" ")
		buf.WriteString(b.suffix)
	}

	return buf.String(), args.values, nil
}

type setClause struct {
	column   string
	value    any
	expr     string
	exprArgs []any
	isExpr   bool
}

type UpdateBuilder struct {
	table string
	sets  []setClause
	where []Cond
}

func Update(table string) *UpdateBuilder {
	return &UpdateBuilder{table: table}
}

func (b *UpdateBuilder) Set(column string, value any) *UpdateBuilder {
	b.sets = append(b.sets, setClause{column: column, value: value})
	return b
}

func (b *UpdateBuilder) SetExpr(column, expr string, exprArgs ...any) *UpdateBuilder {
	b.sets = append(b.sets, setClause{column: column, expr: expr, exprArgs: exprArgs, isExpr: true})
	return b
}

func (b *UpdateBuilder) Where(conds ...Cond) *UpdateBuilder {
	b.where = append(b.where, conds...)
	return b
}

func (b *UpdateBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("update table is required")
	}
	if len(b.sets) == 0 {
		return "", nil, fmt.Errorf("update sets are required")
	}

	var buf strings.Builder
	args := &argList{}

	buf.WriteString("UPDATE ")
	buf.WriteString(b.table)
	buf.WriteString(" SET ")
	for i, s := range b.sets {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(s.column)
		buf.WriteString(" = ")
		if s.isExpr {
			buf.WriteString(args.bind(s.expr, s.exprArgs))
		} else {
			buf.WriteString(args.add(s.value))
		}
	}
	writeWhere(&buf, b.where, args)

	return buf.String(), args.values, nil
}

type DeleteBuilder struct {
	table string
	where []Cond
}

func DeleteFrom(table string) *DeleteBuilder {
	return &DeleteBuilder{table: table}
}

func (b *DeleteBuilder) Where(conds ...Cond) *DeleteBuilder {
	b.where = append(b.where, conds...)
	return b
}

func (b *DeleteBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("delete table is required")
	}

	var buf strings.Builder
	args := &argList{}

	buf.WriteString("DELETE FROM ")
	buf.WriteString(b.table)
	writeWhere(&buf, b.where, args)

	return buf.String(), args.values, nil
}

func writeWhere(buf *strings.Builder, conds []Cond, args *argList) {
	if len(conds) == 0 {
		return
	}
	buf.WriteString(" WHERE ")
	for i, c := range conds {
		if i > 0 {
			buf.WriteString(" AND ")
		}
		buf.WriteString(c.render(args))
	}
}
