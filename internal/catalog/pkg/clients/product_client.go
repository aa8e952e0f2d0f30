package clients

import (
	"context"
	"fmt"
	"gomarketplace_admin/internal/catalog/business/models"
	"net/http"
)

const productsEndpoint = "/api/products"

type ProductClient struct {
	*BaseClient
}

func NewProductClient(base *BaseClient) *ProductClient {
	return &ProductClient{BaseClient: base}
}

type createProductResponse struct {
	Success bool                  `json:"success"`
	Message string                `json:"message"`
	Product models.CreatedProduct `json:"product"`
}

// CreateProduct отправляет multipart-форму товара. requestID уходит в
// X-Request-ID, чтобы запись журнала можно было сопоставить с логами API.
func (c *ProductClient) CreateProduct(ctx context.Context, requestID string, payload *models.Payload) (*models.CreatedProduct, error) {
	body, contentType, err := payload.Encode()
	if err != nil {
		return nil, err
	}

	size := body.Len()
	c.log.Log("Request Body Size: %d bytes (%.2f MB), files: %d", size, float64(size)/(1<<20), len(payload.Files))

	req, err := c.newRequest(ctx, http.MethodPost, productsEndpoint, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	if requestID != "" {
		req.Header.Set("X-Request-ID", requestID)
	}

	var resp createProductResponse
	if err := c.do(ctx, req, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf("product was not created: %s", resp.Message)
	}
	return &resp.Product, nil
}
