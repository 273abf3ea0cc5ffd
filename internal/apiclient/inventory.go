package apiclient

import (
	"context"
	"fmt"
	"net/url"

	"expense-backoffice/internal/models"
)

// MonthSummary ayın önceden toplanmış stok hareketlerini getirir.
func (c *Client) MonthSummary(ctx context.Context, businessID uint, year, month int) (*models.MonthSummary, error) {
	q := url.Values{}
	q.Set("year", fmt.Sprint(year))
	q.Set("month", fmt.Sprint(month))
	var out models.MonthSummary
	if err := c.get(ctx, idPath("/expenses/inventory-tracking/business/%d/summary", businessID), q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
