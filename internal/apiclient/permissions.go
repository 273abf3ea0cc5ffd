package apiclient

import (
	"context"

	"expense-backoffice/internal/models"
)

type permissionChange struct {
	BusinessID  uint     `json:"business_id"`
	Permissions []string `json:"permissions"`
}

func (c *Client) GetEmployeePermissions(ctx context.Context, businessID, employeeID uint) (*models.EmployeePermissions, error) {
	var out models.EmployeePermissions
	if err := c.get(ctx, idPath("/permissions/employees/%d", employeeID), businessQuery(businessID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GrantPermissions(ctx context.Context, businessID, employeeID uint, perms []string) error {
	return c.post(ctx, idPath("/permissions/employees/%d/grant", employeeID),
		permissionChange{BusinessID: businessID, Permissions: perms}, nil)
}

func (c *Client) RevokePermissions(ctx context.Context, businessID, employeeID uint, perms []string) error {
	return c.post(ctx, idPath("/permissions/employees/%d/revoke", employeeID),
		permissionChange{BusinessID: businessID, Permissions: perms}, nil)
}
