package identity

// Admin areas
const (
	AreaProduct      = "Product"
	AreaCategory     = "Category"
	AreaColor        = "Color"
	AreaDiscount     = "Discount"
	AreaOrder        = "Order"
	AreaCustomer     = "Customer"
	AreaMembership   = "Membership"
	AreaCoupon       = "Coupon"
	AreaAdminAccount = "AdminAccount"
	AreaRole         = "Role"
	AreaDashboard    = "Dashboard"
	AreaReport       = "Report"
	AreaWarranty     = "Warranty"
)

// Admin actions
const (
	ActionIndex        = "Index"
	ActionView         = "View"
	ActionCreate       = "Create"
	ActionEdit         = "Edit"
	ActionDelete       = "Delete"
	ActionApprove      = "Approve"
	ActionBlock        = "Block"
	ActionExport       = "Export"
	ActionProcessClaim = "ProcessClaim"
)

// PermissionDefinition describes a permission seeded at startup
type PermissionDefinition struct {
	Name        string
	Description string
	Area        string
	Action      string
}

func crud(area, plural, singular string) []PermissionDefinition {
	return []PermissionDefinition{
		{Name: "View" + plural, Description: "View " + singular + " list", Area: area, Action: ActionIndex},
		{Name: "Create" + singular, Description: "Create " + singular, Area: area, Action: ActionCreate},
		{Name: "Edit" + singular, Description: "Edit " + singular, Area: area, Action: ActionEdit},
		{Name: "Delete" + singular, Description: "Delete " + singular, Area: area, Action: ActionDelete},
	}
}

// DefaultPermissions returns the permission catalogue
func DefaultPermissions() []PermissionDefinition {
	var defs []PermissionDefinition
	defs = append(defs, crud(AreaProduct, "Products", "Product")...)
	defs = append(defs, crud(AreaCategory, "Categories", "Category")...)
	defs = append(defs, crud(AreaColor, "Colors", "Color")...)
	defs = append(defs, crud(AreaDiscount, "Discounts", "Discount")...)
	defs = append(defs, crud(AreaOrder, "Orders", "Order")...)
	defs = append(defs, crud(AreaCustomer, "Customers", "Customer")...)
	defs = append(defs, crud(AreaMembership, "Memberships", "Membership")...)
	defs = append(defs, crud(AreaCoupon, "Coupons", "Coupon")...)
	defs = append(defs, crud(AreaWarranty, "Warranties", "Warranty")...)
	defs = append(defs,
		PermissionDefinition{Name: "ProcessWarrantyClaim", Description: "Process warranty claims", Area: AreaWarranty, Action: ActionProcessClaim},
		PermissionDefinition{Name: "ViewAdmins", Description: "View admin accounts", Area: AreaAdminAccount, Action: ActionIndex},
		PermissionDefinition{Name: "ApproveAdmin", Description: "Approve admin accounts", Area: AreaAdminAccount, Action: ActionApprove},
		PermissionDefinition{Name: "BlockAdmin", Description: "Block admin accounts", Area: AreaAdminAccount, Action: ActionBlock},
		PermissionDefinition{Name: "DeleteAdmin", Description: "Delete admin accounts", Area: AreaAdminAccount, Action: ActionDelete},
		PermissionDefinition{Name: "ViewRoles", Description: "View roles", Area: AreaRole, Action: ActionView},
		PermissionDefinition{Name: "CreateRole", Description: "Create roles", Area: AreaRole, Action: ActionCreate},
		PermissionDefinition{Name: "EditRole", Description: "Edit roles", Area: AreaRole, Action: ActionEdit},
		PermissionDefinition{Name: "DeleteRole", Description: "Delete roles", Area: AreaRole, Action: ActionDelete},
		PermissionDefinition{Name: "ViewDashboard", Description: "View dashboard", Area: AreaDashboard, Action: ActionIndex},
		PermissionDefinition{Name: "ViewReports", Description: "View revenue reports", Area: AreaReport, Action: ActionIndex},
		PermissionDefinition{Name: "ExportReports", Description: "Export revenue reports", Area: AreaReport, Action: ActionExport},
	)
	return defs
}

// SystemRoleDefinition describes a built-in role and its permission names
type SystemRoleDefinition struct {
	Name        string
	Description string
	Permissions []string
}

// DefaultSystemRoles returns the built-in roles. SuperAdmin needs no
// permissions since it bypasses every check.
func DefaultSystemRoles() []SystemRoleDefinition {
	var adminPerms, userPerms []string
	for _, d := range DefaultPermissions() {
		switch d.Area {
		case AreaAdminAccount, AreaRole:
			continue
		}
		adminPerms = append(adminPerms, d.Name)
		if d.Action == ActionIndex {
			userPerms = append(userPerms, d.Name)
		}
	}
	return []SystemRoleDefinition{
		{Name: RoleSuperAdmin, Description: "Full access to every area"},
		{Name: RoleAdmin, Description: "Manages the store", Permissions: adminPerms},
		{Name: RoleUser, Description: "Read-only staff access", Permissions: userPerms},
	}
}
