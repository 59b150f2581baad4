package authorization

import "strings"

// OrgRole is the closed set of roles a user can hold inside an organization.
type OrgRole string

const (
	RoleOrgAdmin      OrgRole = "org_admin"
	RoleOrgManager    OrgRole = "org_manager"
	RoleOrgSupervisor OrgRole = "org_supervisor"
	RoleOrgSales      OrgRole = "org_sales"
	RoleOrgUser       OrgRole = "org_user"
)

// OrgRoles lists every valid role, ordered by privilege breadth.
var OrgRoles = []OrgRole{
	RoleOrgAdmin,
	RoleOrgManager,
	RoleOrgSupervisor,
	RoleOrgSales,
	RoleOrgUser,
}

// ParseOrgRole validates a raw role string against the closed enum.
func ParseOrgRole(raw string) (OrgRole, bool) {
	role := OrgRole(strings.ToLower(strings.TrimSpace(raw)))
	switch role {
	case RoleOrgAdmin, RoleOrgManager, RoleOrgSupervisor, RoleOrgSales, RoleOrgUser:
		return role, true
	}
	return "", false
}

// Capabilities is the fixed permission set attached to an organization role.
type Capabilities struct {
	ViewUsers   bool
	CreateUsers bool
	UpdateUsers bool
	DeleteUsers bool
	ManageRoles bool

	ViewSales   bool
	CreateSales bool
	UpdateSales bool
	DeleteSales bool

	ViewWithdrawals   bool
	CreateWithdrawals bool
	UpdateWithdrawals bool
	DeleteWithdrawals bool

	ViewAnalytics    bool
	ViewAllAnalytics bool

	ManageOrganization       bool
	ViewOrganizationSettings bool
}

// Capabilities returns the permission set for the role. Unknown roles get the
// zero value, which denies everything.
func (r OrgRole) Capabilities() Capabilities {
	switch r {
	case RoleOrgAdmin:
		return Capabilities{
			ViewUsers:   true,
			CreateUsers: true,
			UpdateUsers: true,
			DeleteUsers: true,
			ManageRoles: true,

			ViewSales:   true,
			CreateSales: true,
			UpdateSales: true,
			DeleteSales: true,

			ViewWithdrawals:   true,
			CreateWithdrawals: true,
			UpdateWithdrawals: true,
			DeleteWithdrawals: true,

			ViewAnalytics:    true,
			ViewAllAnalytics: true,

			ManageOrganization:       true,
			ViewOrganizationSettings: true,
		}
	case RoleOrgManager:
		return Capabilities{
			ViewUsers:   true,
			CreateUsers: true,
			UpdateUsers: true,
			ManageRoles: true,

			ViewSales:   true,
			CreateSales: true,
			UpdateSales: true,
			DeleteSales: true,

			ViewWithdrawals:   true,
			CreateWithdrawals: true,
			UpdateWithdrawals: true,

			ViewAnalytics:    true,
			ViewAllAnalytics: true,

			ViewOrganizationSettings: true,
		}
	case RoleOrgSupervisor:
		return Capabilities{
			ViewUsers: true,

			ViewSales:   true,
			CreateSales: true,
			UpdateSales: true,
			DeleteSales: true,

			ViewWithdrawals: true,

			ViewAnalytics:    true,
			ViewAllAnalytics: true,
		}
	case RoleOrgSales:
		return Capabilities{
			ViewSales:   true,
			CreateSales: true,
			UpdateSales: true,

			ViewAnalytics: true,
		}
	case RoleOrgUser:
		return Capabilities{
			ViewSales: true,

			ViewAnalytics: true,
		}
	}
	return Capabilities{}
}

// policyRules expands the capability set into casbin (object, action) rules.
func (c Capabilities) policyRules() [][2]string {
	rules := make([][2]string, 0, 17)
	add := func(enabled bool, object, action string) {
		if enabled {
			rules = append(rules, [2]string{object, action})
		}
	}

	add(c.ViewUsers, ObjectUser, ActionUserView)
	add(c.CreateUsers, ObjectUser, ActionUserCreate)
	add(c.UpdateUsers, ObjectUser, ActionUserUpdate)
	add(c.DeleteUsers, ObjectUser, ActionUserDelete)
	add(c.ManageRoles, ObjectUser, ActionUserManageRoles)

	add(c.ViewSales, ObjectSale, ActionSaleView)
	add(c.CreateSales, ObjectSale, ActionSaleCreate)
	add(c.UpdateSales, ObjectSale, ActionSaleUpdate)
	add(c.DeleteSales, ObjectSale, ActionSaleDelete)

	add(c.ViewWithdrawals, ObjectWithdrawal, ActionWithdrawalView)
	add(c.CreateWithdrawals, ObjectWithdrawal, ActionWithdrawalCreate)
	add(c.UpdateWithdrawals, ObjectWithdrawal, ActionWithdrawalUpdate)
	add(c.DeleteWithdrawals, ObjectWithdrawal, ActionWithdrawalDelete)

	add(c.ViewAnalytics, ObjectAnalytics, ActionAnalyticsView)
	add(c.ViewAllAnalytics, ObjectAnalytics, ActionAnalyticsViewAll)

	add(c.ManageOrganization, ObjectOrganization, ActionOrganizationManage)
	add(c.ViewOrganizationSettings, ObjectOrganization, ActionOrganizationViewSettings)

	return rules
}
