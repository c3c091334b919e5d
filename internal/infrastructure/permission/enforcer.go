// Package permission authorizes admin routes with a casbin RBAC model.
package permission

import (
	"fmt"
	"sync"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"gorm.io/gorm"

	"github.com/videocc/videocc/internal/shared/authorization"
	"github.com/videocc/videocc/internal/shared/logger"
)

// Objects and actions guarded by the enforcer.
const (
	ObjectReserve        = "reserve"
	ObjectFraudAnalytics = "fraud_analytics"

	ActionRead   = "read"
	ActionAdjust = "adjust"
)

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

// DefaultPolicies are seeded on startup. Only admins reach the admin routes.
var DefaultPolicies = [][]string{
	{authorization.RoleAdmin.String(), ObjectReserve, ActionRead},
	{authorization.RoleAdmin.String(), ObjectReserve, ActionAdjust},
	{authorization.RoleAdmin.String(), ObjectFraudAnalytics, ActionRead},
}

type Enforcer struct {
	enforcer *casbin.Enforcer
	mu       sync.RWMutex
	logger   logger.Interface
}

// NewEnforcer persists policies in the casbin_rule table through gorm.
func NewEnforcer(db *gorm.DB, log logger.Interface) (*Enforcer, error) {
	adapter, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin adapter: %w", err)
	}

	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("failed to parse casbin model: %w", err)
	}

	enforcer, err := casbin.NewEnforcer(m, adapter)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}

	if err := enforcer.LoadPolicy(); err != nil {
		return nil, fmt.Errorf("failed to load policy: %w", err)
	}

	return &Enforcer{enforcer: enforcer, logger: log}, nil
}

// NewMemoryEnforcer keeps policies in memory only.
func NewMemoryEnforcer(log logger.Interface) (*Enforcer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("failed to parse casbin model: %w", err)
	}
	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}
	return &Enforcer{enforcer: enforcer, logger: log}, nil
}

func (e *Enforcer) Enforce(subject, object, action string) (bool, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	allowed, err := e.enforcer.Enforce(subject, object, action)
	if err != nil {
		e.logger.Errorw("permission check failed", "error", err, "subject", subject, "object", object, "action", action)
		return false, fmt.Errorf("permission check failed: %w", err)
	}

	return allowed, nil
}

// SeedDefaults adds any default policy that is missing.
func (e *Enforcer) SeedDefaults() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	added := 0
	for _, p := range DefaultPolicies {
		ok, err := e.enforcer.AddPolicy(p[0], p[1], p[2])
		if err != nil {
			e.logger.Errorw("failed to add policy", "error", err, "role", p[0], "object", p[1], "action", p[2])
			return fmt.Errorf("failed to add policy [%s, %s, %s]: %w", p[0], p[1], p[2], err)
		}
		if ok {
			added++
		}
	}

	e.logger.Infow("default permissions seeded", "added", added)
	return nil
}

func (e *Enforcer) AddPolicy(role, object, action string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.enforcer.AddPolicy(role, object, action); err != nil {
		e.logger.Errorw("failed to add policy", "error", err)
		return fmt.Errorf("failed to add policy: %w", err)
	}
	return nil
}

func (e *Enforcer) RemovePolicy(role, object, action string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.enforcer.RemovePolicy(role, object, action); err != nil {
		e.logger.Errorw("failed to remove policy", "error", err)
		return fmt.Errorf("failed to remove policy: %w", err)
	}
	return nil
}

func (e *Enforcer) LoadPolicy() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.enforcer.LoadPolicy(); err != nil {
		return fmt.Errorf("failed to reload policy: %w", err)
	}

	e.logger.Info("policy reloaded successfully")
	return nil
}
