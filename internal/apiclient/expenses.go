package apiclient

import (
	"context"
	"net/url"

	"expense-backoffice/internal/models"
)

type SectionInput struct {
	BusinessID uint   `json:"business_id"`
	Name       string `json:"name"`
	OrderIndex int    `json:"order_index"`
}

type CategoryInput struct {
	SectionID     uint   `json:"section_id"`
	Name          string `json:"name"`
	DefaultUnitID *uint  `json:"default_unit_id"`
	OrderIndex    int    `json:"order_index"`
}

// ListSections pasif bölümler dahil işletmenin tüm bölümlerini döner.
func (c *Client) ListSections(ctx context.Context, businessID uint) ([]models.ExpenseSection, error) {
	q := businessQuery(businessID)
	q.Set("include_inactive", "true")
	var out []models.ExpenseSection
	if err := c.get(ctx, "/expenses/sections", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListSectionCategories bölümün tüm kategorilerini (pasifler dahil) sunucudaki
// gerçek is_active değerleriyle döner.
func (c *Client) ListSectionCategories(ctx context.Context, sectionID uint) ([]models.ExpenseCategory, error) {
	q := url.Values{}
	q.Set("include_inactive", "true")
	var out []models.ExpenseCategory
	if err := c.get(ctx, idPath("/expenses/sections/%d/categories", sectionID), q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateSection(ctx context.Context, in SectionInput) (*models.ExpenseSection, error) {
	var out models.ExpenseSection
	if err := c.post(ctx, "/expenses/sections", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateSection(ctx context.Context, id uint, in SectionInput) (*models.ExpenseSection, error) {
	var out models.ExpenseSection
	if err := c.put(ctx, idPath("/expenses/sections/%d", id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteSection(ctx context.Context, id uint) error {
	return c.delete(ctx, idPath("/expenses/sections/%d", id))
}

func (c *Client) ActivateSection(ctx context.Context, id uint) (*models.ExpenseSection, error) {
	var out models.ExpenseSection
	if err := c.patch(ctx, idPath("/expenses/sections/%d/activate", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeactivateSection(ctx context.Context, id uint) (*models.ExpenseSection, error) {
	var out models.ExpenseSection
	if err := c.patch(ctx, idPath("/expenses/sections/%d/deactivate", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListCategories(ctx context.Context, businessID uint) ([]models.ExpenseCategory, error) {
	q := businessQuery(businessID)
	q.Set("include_inactive", "true")
	var out []models.ExpenseCategory
	if err := c.get(ctx, "/expenses/categories", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateCategory(ctx context.Context, in CategoryInput) (*models.ExpenseCategory, error) {
	var out models.ExpenseCategory
	if err := c.post(ctx, "/expenses/categories", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateCategory(ctx context.Context, id uint, in CategoryInput) (*models.ExpenseCategory, error) {
	var out models.ExpenseCategory
	if err := c.put(ctx, idPath("/expenses/categories/%d", id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteCategory(ctx context.Context, id uint) error {
	return c.delete(ctx, idPath("/expenses/categories/%d", id))
}

func (c *Client) ActivateCategory(ctx context.Context, id uint) (*models.ExpenseCategory, error) {
	var out models.ExpenseCategory
	if err := c.patch(ctx, idPath("/expenses/categories/%d/activate", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeactivateCategory(ctx context.Context, id uint) (*models.ExpenseCategory, error) {
	var out models.ExpenseCategory
	if err := c.patch(ctx, idPath("/expenses/categories/%d/deactivate", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
