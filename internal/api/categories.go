package api

import (
	"context"
	"net/http"

	"menucli/internal/model"
)

func (c *Client) Categories(ctx context.Context, storeID string) ([]model.Category, error) {
	var cats []model.Category
	if err := c.doJSON(ctx, http.MethodGet, "/stores/"+storeID+"/categories", nil, &cats); err != nil {
		return nil, err
	}
	return cats, nil
}

type updateOrderRequest struct {
	ID    int64 `json:"id"`
	Order int   `json:"order"`
}

// UpdateCategoryOrder sends only the moved category's id and new position;
// the server cascades order values to siblings and returns the rows it
// touched.
func (c *Client) UpdateCategoryOrder(ctx context.Context, id int64, order int) ([]model.OrderAck, error) {
	var acks []model.OrderAck
	err := c.doJSON(ctx, http.MethodPatch, "/categories/update-order", updateOrderRequest{ID: id, Order: order}, &acks)
	if err != nil {
		return nil, err
	}
	return acks, nil
}
