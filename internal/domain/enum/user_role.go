package enum

import "strings"

// UserRole is a staff member's role within a shop
type UserRole string

const (
	UserRoleOwner   UserRole = "owner"
	UserRoleManager UserRole = "manager"
	UserRoleCashier UserRole = "cashier"
)

// Permissions used by route guards
const (
	PermViewDashboard   = "view-dashboard"
	PermManageProducts  = "manage-products"
	PermManageInventory = "manage-inventory"
	PermManageOrders    = "manage-orders"
	PermCancelOrders    = "cancel-orders"
	PermManageCustomers = "manage-customers"
	PermViewAudit       = "view-audit"
	PermManageStaff     = "manage-staff"
)

var rolePermissions = map[UserRole][]string{
	UserRoleOwner: {
		PermViewDashboard, PermManageProducts, PermManageInventory, PermManageOrders,
		PermCancelOrders, PermManageCustomers, PermViewAudit, PermManageStaff,
	},
	UserRoleManager: {
		PermViewDashboard, PermManageProducts, PermManageInventory, PermManageOrders,
		PermCancelOrders, PermManageCustomers, PermViewAudit,
	},
	UserRoleCashier: {
		PermManageOrders, PermManageCustomers,
	},
}

func ParseUserRole(s string) (UserRole, bool) {
	r := UserRole(strings.ToLower(strings.TrimSpace(s)))
	_, ok := rolePermissions[r]
	return r, ok
}

// Permissions returns the permission names granted to the role
func (r UserRole) Permissions() []string {
	return rolePermissions[r]
}

// Can reports whether the role grants a permission
func (r UserRole) Can(permission string) bool {
	for _, p := range rolePermissions[r] {
		if p == permission {
			return true
		}
	}
	return false
}
