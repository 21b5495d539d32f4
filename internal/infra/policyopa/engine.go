package policyopa

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"tenantd/internal/domain"

	"github.com/open-policy-agent/opa/ast"
	"github.com/open-policy-agent/opa/rego"
	"github.com/open-policy-agent/opa/storage/inmem"
)

const defaultQuery = "data.tenantd.rbac.allow"

// DefaultModule grants a permission when the role appears in
// data.permissions[permission]. It mirrors the static authorizer.
const DefaultModule = `package tenantd.rbac

default allow = false

allow {
	input.role != ""
	data.permissions[input.permission][_] == input.role
}
`

type Engine struct {
	query rego.PreparedEvalQuery
	perms []string
}

func NewEngine(ctx context.Context, table map[string][]domain.Role) (*Engine, error) {
	return NewEngineWithModule(ctx, table, "rbac.rego", DefaultModule)
}

func NewEngineFromFile(ctx context.Context, table map[string][]domain.Role, path string) (*Engine, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read policy: %w", err)
	}
	return NewEngineWithModule(ctx, table, path, string(payload))
}

// NewEngineWithModule compiles module with the permission table loaded as
// data.permissions. The module must define data.tenantd.rbac.allow.
func NewEngineWithModule(ctx context.Context, table map[string][]domain.Role, name, module string) (*Engine, error) {
	capabilities := ast.CapabilitiesForThisVersion()
	capabilities.Builtins = filterBuiltins(capabilities.Builtins)
	compiler := ast.NewCompiler().WithCapabilities(capabilities)

	r := rego.New(
		rego.Query(defaultQuery),
		rego.Compiler(compiler),
		rego.StrictBuiltinErrors(true),
		rego.Module(name, module),
		rego.Store(inmem.NewFromObject(permissionData(table))),
	)
	prepared, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, err
	}
	if err := assertNoForbiddenBuiltins(compiler); err != nil {
		return nil, err
	}
	perms := make([]string, 0, len(table))
	for perm := range table {
		perms = append(perms, perm)
	}
	sort.Strings(perms)
	return &Engine{query: prepared, perms: perms}, nil
}

// Can evaluates the policy and denies on any evaluation error.
func (e *Engine) Can(permission string, role domain.Role) bool {
	allowed, err := e.Allow(context.Background(), permission, role)
	return err == nil && allowed
}

func (e *Engine) Require(permission string, role domain.Role) error {
	if !e.Can(permission, role) {
		return &domain.ForbiddenError{Permission: permission}
	}
	return nil
}

// Permissions lists the table permissions the policy grants role, sorted.
// A custom policy granting names outside the table does not widen the list.
func (e *Engine) Permissions(role domain.Role) []string {
	if e == nil {
		return []string{}
	}
	out := make([]string, 0, len(e.perms))
	for _, perm := range e.perms {
		if e.Can(perm, role) {
			out = append(out, perm)
		}
	}
	return out
}

func (e *Engine) Allow(ctx context.Context, permission string, role domain.Role) (bool, error) {
	if e == nil {
		return false, errors.New("policy engine is nil")
	}
	results, err := e.query.Eval(ctx, rego.EvalInput(map[string]any{
		"permission": permission,
		"role":       string(role),
	}))
	if err != nil {
		return false, err
	}
	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return false, nil
	}
	allowed, ok := results[0].Expressions[0].Value.(bool)
	if !ok {
		return false, fmt.Errorf("policy result is %T, want bool", results[0].Expressions[0].Value)
	}
	return allowed, nil
}

func permissionData(table map[string][]domain.Role) map[string]any {
	perms := make(map[string]any, len(table))
	for perm, roles := range table {
		list := make([]any, 0, len(roles))
		for _, r := range roles {
			list = append(list, string(r))
		}
		perms[perm] = list
	}
	return map[string]any{"permissions": perms}
}

func assertNoForbiddenBuiltins(compiler *ast.Compiler) error {
	if compiler == nil {
		return errors.New("policy compiler is nil")
	}
	forbidden := make(map[string]struct{})
	for _, module := range compiler.Modules {
		ast.WalkTerms(module, func(term *ast.Term) bool {
			call, ok := term.Value.(ast.Call)
			if !ok || len(call) == 0 || call[0] == nil {
				return false
			}
			name := call[0].Value.String()
			if _, ok := ast.BuiltinMap[name]; !ok {
				return false
			}
			if _, ok := allowedBuiltins[name]; ok {
				return false
			}
			forbidden[name] = struct{}{}
			return false
		})
	}
	if len(forbidden) == 0 {
		return nil
	}
	names := make([]string, 0, len(forbidden))
	for name := range forbidden {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Errorf("forbidden builtins: %s", strings.Join(names, ", "))
}

var _ domain.PermissionCatalog = (*Engine)(nil)
