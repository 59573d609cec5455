package api

import (
	"context"
	"net/http"
	"strconv"

	"menucli/internal/model"
)

func (c *Client) ItemsByCategory(ctx context.Context, categoryID int64) ([]model.Item, error) {
	var items []model.Item
	path := "/categories/" + strconv.FormatInt(categoryID, 10) + "/items"
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) UpdateItemOrder(ctx context.Context, id int64, order int) ([]model.OrderAck, error) {
	var acks []model.OrderAck
	err := c.doJSON(ctx, http.MethodPatch, "/items/update-order", updateOrderRequest{ID: id, Order: order}, &acks)
	if err != nil {
		return nil, err
	}
	return acks, nil
}
