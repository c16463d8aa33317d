// Package policy holds the role based authorization rules for user management.
//
// Every rule returns nil to allow and a classified *errors.Error to deny.
// Denials are logged at warn level with the actor and the target.
package policy

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"authapi/internal/auth"
	apperrors "authapi/internal/errors"
	"authapi/internal/metrics"
	"authapi/internal/model"
)

// Action is a user management operation subject to self-or-admin checks.
type Action string

const (
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Rule names, used as metric labels.
const (
	RuleRequireAdmin      = "require_admin"
	RuleSelfOrAdmin       = "self_or_admin"
	RuleRoleChange        = "role_change"
	RuleAdminSelfDeletion = "admin_self_deletion"
)

var selfOnlyMessages = map[Action]string{
	ActionUpdate: "You can only update your own information",
	ActionDelete: "You can only delete your own account",
}

// Policy evaluates authorization rules.
type Policy struct {
	log     logrus.FieldLogger
	metrics *metrics.Metrics
}

// New creates a Policy. m may be nil.
func New(log logrus.FieldLogger, m *metrics.Metrics) *Policy {
	return &Policy{log: log, metrics: m}
}

// RequireAdmin allows only admins.
func (p *Policy) RequireAdmin(actor auth.Identity) error {
	if actor.IsAdmin() {
		return nil
	}
	p.deny(RuleRequireAdmin, actor, "", "Admin access denied")
	return apperrors.Forbidden("Admin access required")
}

// RequireSelfOrAdmin allows admins and the owner of targetID.
func (p *Policy) RequireSelfOrAdmin(actor auth.Identity, targetID uint, action Action) error {
	if actor.IsAdmin() || actor.UserID == targetID {
		return nil
	}
	p.deny(RuleSelfOrAdmin, actor, targetID, fmt.Sprintf("Attempted to %s another user without permission", action))
	msg, ok := selfOnlyMessages[action]
	if !ok {
		msg = "You can only manage your own account"
	}
	return apperrors.Forbidden(msg)
}

// RoleChangeGuard denies role changes by non-admins.
func (p *Policy) RoleChangeGuard(actor auth.Identity, targetID uint, update model.UserUpdate) error {
	if update.Role == nil || actor.IsAdmin() {
		return nil
	}
	p.deny(RuleRoleChange, actor, targetID, "Attempted to change role without admin privileges")
	return apperrors.Forbidden("Only admins can change user roles")
}

// SelfDeletionGuard denies an admin deleting their own account.
func (p *Policy) SelfDeletionGuard(actor auth.Identity, targetID uint) error {
	if !actor.IsAdmin() || actor.UserID != targetID {
		return nil
	}
	p.deny(RuleAdminSelfDeletion, actor, targetID, "Admin attempted to delete their own account")
	return apperrors.BadRequest("Admins cannot delete their own account")
}

func (p *Policy) deny(rule string, actor auth.Identity, target interface{}, msg string) {
	p.metrics.PolicyDenied(rule)

	fields := logrus.Fields{
		"rule":  rule,
		"actor": actor.Email,
		"role":  actor.Role,
	}
	if target != "" {
		fields["target"] = target
	}
	p.log.WithFields(fields).Warn(msg)
}
