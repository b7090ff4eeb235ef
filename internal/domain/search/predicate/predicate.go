// Package predicate builds parameterized SQL predicates from whitelisted columns.
// Identifiers come only from the whitelist; every user value travels as a bind argument.
package predicate

import (
	"fmt"
	"strings"
)

// Match is a closed set of comparison operators.
type Match string

// Match operators.
const (
	Eq       Match = "="
	Like     Match = "LIKE"
	ILike    Match = "ILIKE"
	NotLike  Match = "NOT LIKE"
	NotILike Match = "NOT ILIKE"
)

// ParseMatch validates a match operator. Empty defaults to LIKE.
func ParseMatch(s string) (Match, error) {
	if s == "" {
		return Like, nil
	}
	m := Match(s)
	switch m {
	case Eq, Like, ILike, NotLike, NotILike:
		return m, nil
	}
	return "", fmt.Errorf("unsupported match %q", s)
}

// IsPattern reports whether values are matched as wildcard patterns.
func (m Match) IsPattern() bool { return m != Eq }

// Link joins an advanced clause to the preceding one.
type Link string

// Link operators.
const (
	LinkNone Link = ""
	And      Link = "AND"
	Or       Link = "OR"
)

// ParseLink validates a link operator.
func ParseLink(s string) (Link, error) {
	l := Link(s)
	switch l {
	case LinkNone, And, Or:
		return l, nil
	}
	return "", fmt.Errorf("unsupported link %q", s)
}

// Column is a whitelisted column reference, optionally into a JSON document.
type Column struct {
	table    Table
	name     string
	jsonPath []string
}

// NewColumn creates a column reference for trusted call sites (method catalogue).
func NewColumn(table Table, name string) Column {
	return Column{table: table, name: name}
}

// Table returns the column's table.
func (c Column) Table() Table { return c.table }

// Name returns the column name.
func (c Column) Name() string { return c.name }

// Expr renders the qualified column, e.g. samples.xref -> 'cas' ->> 'value'.
func (c Column) Expr() string {
	base := string(c.table) + "." + c.name
	if len(c.jsonPath) == 0 {
		return base
	}
	var b strings.Builder
	b.WriteString(base)
	for i, k := range c.jsonPath {
		if i == len(c.jsonPath)-1 {
			b.WriteString(" ->> '")
		} else {
			b.WriteString(" -> '")
		}
		b.WriteString(k)
		b.WriteString("'")
	}
	return b.String()
}

// Text renders the column cast to text, for ordering keys.
func (c Column) Text() string {
	if len(c.jsonPath) > 0 {
		return "(" + c.Expr() + ")"
	}
	return c.Expr() + "::text"
}

// Expr is a SQL fragment with ? placeholders and its bind arguments.
type Expr struct {
	SQL  string
	Args []any
}

// Raw creates an expression from trusted SQL text.
func Raw(sql string, args ...any) Expr {
	return Expr{SQL: sql, Args: args}
}

// IsEmpty reports whether the expression carries no condition.
func (e Expr) IsEmpty() bool { return e.SQL == "" }

// Compare renders column <op> ?.
func Compare(col Column, m Match, value string) Expr {
	return Expr{SQL: col.Expr() + " " + string(m) + " ?", Args: []any{value}}
}

// Contains renders a case-insensitive substring match.
func Contains(col Column, value string) Expr {
	return Compare(col, ILike, Wrap(EscapeLike(value)))
}

// In renders column IN ?. An empty id list matches nothing.
func In(column string, ids []int64) Expr {
	if len(ids) == 0 {
		return Expr{SQL: "1 = 0"}
	}
	return Expr{SQL: column + " IN ?", Args: []any{ids}}
}

// AnyOf joins expressions with OR inside parentheses.
func AnyOf(exprs []Expr) Expr {
	return group(exprs, " OR ")
}

// AllOf joins expressions with AND inside parentheses.
func AllOf(exprs ...Expr) Expr {
	return group(exprs, " AND ")
}

func group(exprs []Expr, sep string) Expr {
	parts := make([]string, 0, len(exprs))
	var args []any
	for _, e := range exprs {
		if e.IsEmpty() {
			continue
		}
		parts = append(parts, e.SQL)
		args = append(args, e.Args...)
	}
	switch len(parts) {
	case 0:
		return Expr{}
	case 1:
		return Expr{SQL: parts[0], Args: args}
	}
	return Expr{SQL: "(" + strings.Join(parts, sep) + ")", Args: args}
}

// Chain is a flat sequence of groups joined by link operators. It renders without
// regrouping, so SQL precedence applies (AND binds tighter than OR).
type Chain struct {
	parts []string
	args  []any
}

// Append adds a group. The link of the first group is ignored; a missing link on a later
// group means AND.
func (c *Chain) Append(link Link, e Expr) {
	if e.IsEmpty() {
		return
	}
	if len(c.parts) > 0 {
		if link == LinkNone {
			link = And
		}
		c.parts = append(c.parts, string(link))
	}
	c.parts = append(c.parts, "("+e.SQL+")")
	c.args = append(c.args, e.Args...)
}

// Len returns the number of groups.
func (c *Chain) Len() int {
	return (len(c.parts) + 1) / 2
}

// Expr renders the chain as one parenthesized expression.
func (c *Chain) Expr() Expr {
	if len(c.parts) == 0 {
		return Expr{}
	}
	return Expr{SQL: "(" + strings.Join(c.parts, " ") + ")", Args: c.args}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike escapes LIKE wildcards in a literal value.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// Wrap surrounds a value with % wildcards.
func Wrap(s string) string {
	return "%" + s + "%"
}
