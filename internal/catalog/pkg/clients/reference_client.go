package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"gomarketplace_admin/internal/catalog/business/models"
)

// ReferenceClient читает справочники категорий, брендов и магазинов.
type ReferenceClient struct {
	*BaseClient
}

func NewReferenceClient(base *BaseClient) *ReferenceClient {
	return &ReferenceClient{BaseClient: base}
}

// FetchReference запрашивает GET /api/<kind>. Список лежит в ответе под
// ключом с тем же именем: {"success": true, "brands": [...]}.
func (c *ReferenceClient) FetchReference(ctx context.Context, kind models.ReferenceKind) ([]models.ReferenceItem, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown reference kind %q", kind)
	}

	var raw map[string]json.RawMessage
	if err := c.getJSON(ctx, "/api/"+string(kind), &raw); err != nil {
		return nil, err
	}

	list, ok := raw[string(kind)]
	if !ok {
		return nil, fmt.Errorf("response has no %q list", kind)
	}
	items := []models.ReferenceItem{}
	if err := json.Unmarshal(list, &items); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", kind, err)
	}
	return items, nil
}
