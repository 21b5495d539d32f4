package policyopa

import "github.com/open-policy-agent/opa/ast"

// allowedBuiltins bounds what an operator-supplied policy may call. Anything
// with I/O or nondeterminism (http.send, time.now_ns, rand.*) is excluded.
var allowedBuiltins = map[string]struct{}{
	"abs":               {},
	"and":               {},
	"assign":            {},
	"concat":            {},
	"contains":          {},
	"count":             {},
	"eq":                {},
	"equal":             {},
	"endswith":          {},
	"gt":                {},
	"gte":               {},
	"internal.member_2": {},
	"lower":             {},
	"lt":                {},
	"lte":               {},
	"max":               {},
	"min":               {},
	"neq":               {},
	"object.get":        {},
	"object.remove":     {},
	"object.union":      {},
	"or":                {},
	"replace":           {},
	"sort":              {},
	"split":             {},
	"sprintf":           {},
	"startswith":        {},
	"substring":         {},
	"sum":               {},
	"trim":              {},
	"trim_left":         {},
	"trim_right":        {},
	"upper":             {},
}

func filterBuiltins(builtins []*ast.Builtin) []*ast.Builtin {
	allowed := make([]*ast.Builtin, 0, len(builtins))
	for _, builtin := range builtins {
		if _, ok := allowedBuiltins[builtin.Name]; !ok {
			continue
		}
		allowed = append(allowed, builtin)
	}
	return allowed
}
