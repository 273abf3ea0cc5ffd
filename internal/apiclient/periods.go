package apiclient

import (
	"context"

	"expense-backoffice/internal/models"
)

type PeriodInput struct {
	BusinessID uint `json:"business_id"`
	Year       int  `json:"year"`
	Month      int  `json:"month"`
}

func (c *Client) ListPeriods(ctx context.Context, businessID uint) ([]models.MonthPeriod, error) {
	var out []models.MonthPeriod
	if err := c.get(ctx, "/expenses/periods", businessQuery(businessID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreatePeriod(ctx context.Context, in PeriodInput) (*models.MonthPeriod, error) {
	var out models.MonthPeriod
	if err := c.post(ctx, "/expenses/periods", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ClosePeriod(ctx context.Context, id uint) (*models.MonthPeriod, error) {
	var out models.MonthPeriod
	if err := c.post(ctx, idPath("/expenses/periods/%d/close", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
