package core

import (
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"github.com/gofastskill/fastskill/internal/types"
)

// Constraint is one parsed version requirement. Op is ConstraintOpNone
// for the wildcard, which any version satisfies.
type Constraint struct {
	Op      types.ConstraintOp
	Version string
}

// opTokens is the ordered list of constraint operators tried during
// parsing. Longer tokens must precede shorter ones to avoid false
// matches (e.g. ">=" before ">").
var opTokens = []types.ConstraintOp{
	types.ConstraintOpGte,
	types.ConstraintOpLte,
	types.ConstraintOpCompat,
	types.ConstraintOpNe,
	types.ConstraintOpEq2,
	types.ConstraintOpGt,
	types.ConstraintOpLt,
	types.ConstraintOpEq,
}

// ParseConstraint parses a raw constraint string into its clauses.
// Accepts "*" or "" as the wildcard, a bare version as exact match, and
// comma-separated operator clauses (">=1.0,<2.0").
func ParseConstraint(raw string) ([]Constraint, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "*" {
		return []Constraint{{Op: types.ConstraintOpNone}}, nil
	}
	var out []Constraint
	for _, clause := range strings.Split(raw, ",") {
		clause = strings.TrimSpace(clause)
		if clause == "" {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("invalid constraint: %s", raw))
		}
		out = append(out, parseClause(clause))
	}
	return out, nil
}

func parseClause(clause string) Constraint {
	for _, op := range opTokens {
		if strings.HasPrefix(clause, string(op)) {
			version := strings.TrimSpace(strings.TrimPrefix(clause, string(op)))
			return Constraint{Op: op, Version: version}
		}
	}
	// Bare version means exact match.
	return Constraint{Op: types.ConstraintOpEq2, Version: clause}
}
