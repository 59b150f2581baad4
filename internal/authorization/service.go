package authorization

import (
	"context"
	"errors"
)

const (
	ObjectUser         = "user"
	ObjectSale         = "sale"
	ObjectWithdrawal   = "withdrawal"
	ObjectAnalytics    = "analytics"
	ObjectOrganization = "organization"
)

const (
	ActionUserView        = "user.view"
	ActionUserCreate      = "user.create"
	ActionUserUpdate      = "user.update"
	ActionUserDelete      = "user.delete"
	ActionUserManageRoles = "user.manage_roles"

	ActionSaleView   = "sale.view"
	ActionSaleCreate = "sale.create"
	ActionSaleUpdate = "sale.update"
	ActionSaleDelete = "sale.delete"

	ActionWithdrawalView   = "withdrawal.view"
	ActionWithdrawalCreate = "withdrawal.create"
	ActionWithdrawalUpdate = "withdrawal.update"
	ActionWithdrawalDelete = "withdrawal.delete"

	ActionAnalyticsView    = "analytics.view"
	ActionAnalyticsViewAll = "analytics.view_all"

	ActionOrganizationManage       = "organization.manage"
	ActionOrganizationViewSettings = "organization.view_settings"
)

var (
	ErrInvalidActor        = errors.New("authorization: invalid actor")
	ErrInvalidOrganization = errors.New("authorization: invalid organization")
	ErrInvalidObject       = errors.New("authorization: invalid object")
	ErrInvalidAction       = errors.New("authorization: invalid action")
	ErrForbidden           = errors.New("authorization: forbidden")
)

// Service answers "may this actor perform this action on this object inside
// this organization". Actors are "user:<id>" or "system".
type Service interface {
	Authorize(ctx context.Context, actor string, orgID string, object string, action string) error
}
