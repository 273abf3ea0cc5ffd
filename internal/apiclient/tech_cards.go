package apiclient

import (
	"context"

	"expense-backoffice/internal/models"
)

func (c *Client) ListTechCards(ctx context.Context, businessID uint) ([]models.TechCard, error) {
	var out []models.TechCard
	if err := c.get(ctx, "/expenses/tech-cards", businessQuery(businessID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetTechCard(ctx context.Context, id uint) (*models.TechCard, error) {
	var out models.TechCard
	if err := c.get(ctx, idPath("/expenses/tech-cards/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateTechCard(ctx context.Context, in models.TechCard) (*models.TechCard, error) {
	var out models.TechCard
	if err := c.post(ctx, "/expenses/tech-cards", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateTechCard(ctx context.Context, id uint, in models.TechCard) (*models.TechCard, error) {
	var out models.TechCard
	if err := c.put(ctx, idPath("/expenses/tech-cards/%d", id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteTechCard(ctx context.Context, id uint) error {
	return c.delete(ctx, idPath("/expenses/tech-cards/%d", id))
}

func (c *Client) SetTechCardStatus(ctx context.Context, id uint, status models.ApprovalStatus) (*models.TechCard, error) {
	body := map[string]models.ApprovalStatus{"approval_status": status}
	var out models.TechCard
	if err := c.patch(ctx, idPath("/expenses/tech-cards/%d/status", id), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
