package users

import (
	"github.com/accountd/accountd/internal/auth"
)

// Denial reasons surfaced to clients in 403 bodies
const (
	ReasonNotSelfNotAdmin      = "not self and not admin"
	ReasonRoleChangeNeedsAdmin = "role change requires admin"
)

// Decision is the outcome of an authorization check. Decisions are computed
// per request and never stored.
type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason string) Decision {
	return Decision{Reason: reason}
}

// CanModifyUser applies the ownership rule: a principal may act on its own
// record, an admin may act on any record.
func CanModifyUser(p auth.Principal, targetID int64) Decision {
	if p.ID == targetID || p.Role == RoleAdmin {
		return allow()
	}
	return deny(ReasonNotSelfNotAdmin)
}

// CanApplyPatch evaluates the ownership rule and then the role-escalation
// rule, in that order. A patch touching the role field is admin-only even
// when the principal owns the record.
func CanApplyPatch(p auth.Principal, targetID int64, patch UpdateUserRequest) Decision {
	if d := CanModifyUser(p, targetID); !d.Allowed {
		return d
	}

	if patch.Role != nil && p.Role != RoleAdmin {
		return deny(ReasonRoleChangeNeedsAdmin)
	}

	return allow()
}
