// config/security_config.go
package config

import "cheque-ledger-backend/internal/domain"

// Action is a permission checked before an endpoint runs.
type Action string

const (
	ActionCustomerRead      Action = "customer:read"
	ActionCustomerWrite     Action = "customer:write"
	ActionCustomerDelete    Action = "customer:delete"
	ActionVendorRead        Action = "vendor:read"
	ActionVendorWrite       Action = "vendor:write"
	ActionVendorDelete      Action = "vendor:delete"
	ActionTransactionRead   Action = "transaction:read"
	ActionTransactionWrite  Action = "transaction:write"
	ActionTransactionDelete Action = "transaction:delete"
	ActionPaymentWrite      Action = "payment:write"
	ActionDepositRead       Action = "deposit:read"
	ActionDepositWrite      Action = "deposit:write"
	ActionDepositDelete     Action = "deposit:delete"
	ActionReportRead        Action = "report:read"
	ActionReportExport      Action = "report:export"
	ActionUserManage        Action = "user:manage"
)

var userActions = []Action{
	ActionCustomerRead, ActionCustomerWrite,
	ActionVendorRead, ActionVendorWrite,
	ActionTransactionRead, ActionTransactionWrite,
	ActionPaymentWrite,
	ActionDepositRead, ActionDepositWrite,
	ActionReportRead,
}

var adminActions = append(append([]Action{}, userActions...),
	ActionCustomerDelete,
	ActionVendorDelete,
	ActionTransactionDelete,
	ActionDepositDelete,
	ActionReportExport,
	ActionUserManage,
)

// RolePolicy maps each role to the actions it may perform.
var RolePolicy = map[domain.UserRole]map[Action]bool{
	domain.UserRoleUser:      actionSet(userActions),
	domain.UserRoleAdmin:     actionSet(adminActions),
	domain.UserRoleSuperuser: actionSet(adminActions),
}

func actionSet(actions []Action) map[Action]bool {
	set := make(map[Action]bool, len(actions))
	for _, a := range actions {
		set[a] = true
	}
	return set
}

// Allowed reports whether role may perform action. Unknown roles get nothing.
func Allowed(role domain.UserRole, action Action) bool {
	return RolePolicy[role][action]
}

// CanManageRole reports whether an actor may create, modify or delete an
// account holding target. Admins manage plain users only; superusers manage
// everyone.
func CanManageRole(actor, target domain.UserRole) bool {
	if !Allowed(actor, ActionUserManage) {
		return false
	}
	if actor == domain.UserRoleSuperuser {
		return true
	}
	return target.Rank() < actor.Rank()
}
