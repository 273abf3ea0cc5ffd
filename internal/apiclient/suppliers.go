package apiclient

import (
	"context"

	"expense-backoffice/internal/models"
)

func (c *Client) ListSuppliers(ctx context.Context, businessID uint) ([]models.Supplier, error) {
	var out []models.Supplier
	if err := c.get(ctx, "/expenses/suppliers", businessQuery(businessID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SearchSuppliers sunucu tarafı isim/vergi no araması.
func (c *Client) SearchSuppliers(ctx context.Context, businessID uint, term string) ([]models.Supplier, error) {
	q := businessQuery(businessID)
	q.Set("search", term)
	var out []models.Supplier
	if err := c.get(ctx, "/expenses/suppliers", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetSupplier(ctx context.Context, id uint) (*models.Supplier, error) {
	var out models.Supplier
	if err := c.get(ctx, idPath("/expenses/suppliers/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateSupplier(ctx context.Context, in models.Supplier) (*models.Supplier, error) {
	var out models.Supplier
	if err := c.post(ctx, "/expenses/suppliers", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateSupplier(ctx context.Context, id uint, in models.Supplier) (*models.Supplier, error) {
	var out models.Supplier
	if err := c.put(ctx, idPath("/expenses/suppliers/%d", id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteSupplier(ctx context.Context, id uint) error {
	return c.delete(ctx, idPath("/expenses/suppliers/%d", id))
}
