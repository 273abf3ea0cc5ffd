package apiclient

import (
	"context"

	"expense-backoffice/internal/models"
)

func (c *Client) ListUnits(ctx context.Context, businessID uint) ([]models.Unit, error) {
	var out []models.Unit
	if err := c.get(ctx, "/expenses/units", businessQuery(businessID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateUnit(ctx context.Context, in models.Unit) (*models.Unit, error) {
	var out models.Unit
	if err := c.post(ctx, "/expenses/units", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateUnit(ctx context.Context, id uint, in models.Unit) (*models.Unit, error) {
	var out models.Unit
	if err := c.put(ctx, idPath("/expenses/units/%d", id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteUnit(ctx context.Context, id uint) error {
	return c.delete(ctx, idPath("/expenses/units/%d", id))
}
