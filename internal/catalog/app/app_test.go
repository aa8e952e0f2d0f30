package app

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gomarketplace_admin/config"
	"gomarketplace_admin/config/values"
	"gomarketplace_admin/internal/catalog/business/drafts"
	"gomarketplace_admin/internal/catalog/business/form"
	"gomarketplace_admin/internal/catalog/mockapi"
	"gomarketplace_admin/pkg/logger"

	"github.com/gin-gonic/gin"
)

const draftsYAML = `title: Shirt
description: Cotton shirt
price: 20
stock: 5
category: c1
brand: b1
store: s1
images: [shirt.png]
---
title: Hat
description: Wool hat
price: 12
category: c2
brand: b1
store: s1
localShipmentPolicy: custom
images: [shirt.png]
---
title: Boots
description: Leather boots
price: 90
category: c404
brand: b1
store: s1
images: [shirt.png]
`

func testConfig(apiURL string) *config.AppConfig {
	return &config.AppConfig{
		Catalog: config.CatalogConfig{
			ApiURL:            apiURL,
			ApiKey:            "secret",
			RequestsPerMinute: 600,
			Burst:             10,
			Timeout:           5 * time.Second,
		},
		Form:  values.FormValues{DecodeWorkers: 2, MaxImageBytes: 1 << 20},
		Cache: values.CacheValues{TTL: time.Minute, Prefix: "test:"},
	}
}

func TestRunCreatesProductsFromDrafts(t *testing.T) {
	gin.SetMode(gin.TestMode)
	api := mockapi.NewServer(mockapi.DefaultSeed(), mockapi.Credentials{ApiKey: "secret"}, logger.NewSilentLogger(io.Discard, ""))
	server := httptest.NewServer(api.Router())
	defer server.Close()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "shirt.png"), []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), 0o644); err != nil {
		t.Fatal(err)
	}
	draftPath := filepath.Join(dir, "drafts.yaml")
	if err := os.WriteFile(draftPath, []byte(draftsYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	specs, err := drafts.LoadFile(draftPath, "")
	if err != nil {
		t.Fatal(err)
	}

	app := NewCatalogApp(nil, testConfig(server.URL), io.Discard)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	results, err := app.Run(ctx, specs)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("results = %d", len(results))
	}

	if results[0].Err != nil || results[0].ProductID == "" {
		t.Errorf("shirt: %+v", results[0])
	}

	var verr *form.ValidationError
	if !errors.As(results[1].Err, &verr) || verr.Message != form.MsgCustomShippingCost {
		t.Errorf("hat: %v", results[1].Err)
	}

	if !errors.Is(results[2].Err, form.ErrUnknownReference) {
		t.Errorf("boots: %v", results[2].Err)
	}

	products := api.Products()
	if len(products) != 1 || products[0].Title != "Shirt" {
		t.Errorf("products = %+v", products)
	}

	m := app.Metrics()
	if m.Dispatched.Load() != 1 || m.Created.Load() != 1 || m.Rejected.Load() != 1 {
		t.Errorf("metrics: dispatched=%d created=%d rejected=%d",
			m.Dispatched.Load(), m.Created.Load(), m.Rejected.Load())
	}
}

func TestRunReportsUpstreamFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	api := mockapi.NewServer(mockapi.DefaultSeed(), mockapi.Credentials{ApiKey: "other"}, logger.NewSilentLogger(io.Discard, ""))
	server := httptest.NewServer(api.Router())
	defer server.Close()

	app := NewCatalogApp(nil, testConfig(server.URL), io.Discard)
	results, err := app.Run(context.Background(), []drafts.Spec{{Title: "Shirt", Category: "c1"}})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	// справочники не загрузились, поэтому категорию выбрать нельзя
	if !errors.Is(results[0].Err, form.ErrUnknownReference) {
		t.Errorf("err = %v", results[0].Err)
	}
}
