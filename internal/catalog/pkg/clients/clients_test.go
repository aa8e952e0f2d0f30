package clients

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gomarketplace_admin/internal/catalog/business/models"
	"gomarketplace_admin/internal/catalog/business/services"
	"gomarketplace_admin/pkg/logger"
)

func newTestBase(t *testing.T, handler http.HandlerFunc) *BaseClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewBaseClient(server.URL, services.NewBearerAuth("test-key"), logger.NewSilentLogger(io.Discard, "[test]"), Options{})
}

func TestFetchReferenceDecodesList(t *testing.T) {
	base := newTestBase(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/brands" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}
		w.Write([]byte(`{"success":true,"brands":[{"_id":"b1","title":"Acme"},{"_id":"b2","title":"Globex"}]}`))
	})

	items, err := NewReferenceClient(base).FetchReference(context.Background(), models.KindBrands)
	if err != nil {
		t.Fatalf("FetchReference: %v", err)
	}
	want := []models.ReferenceItem{{ID: "b1", Title: "Acme"}, {ID: "b2", Title: "Globex"}}
	if len(items) != len(want) {
		t.Fatalf("items = %+v", items)
	}
	for i := range want {
		if items[i] != want[i] {
			t.Errorf("items[%d] = %+v, want %+v", i, items[i], want[i])
		}
	}
}

func TestFetchReferenceMissingList(t *testing.T) {
	base := newTestBase(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true}`))
	})

	if _, err := NewReferenceClient(base).FetchReference(context.Background(), models.KindStores); err == nil {
		t.Error("expected error for missing list")
	}
}

func TestFetchReferenceAPIError(t *testing.T) {
	base := newTestBase(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"success":false,"message":"not allowed"}`))
	})

	_, err := NewReferenceClient(base).FetchReference(context.Background(), models.KindCategories)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusForbidden || apiErr.Message != "not allowed" {
		t.Errorf("apiErr = %+v", apiErr)
	}
}

func TestFetchReferenceUnknownKind(t *testing.T) {
	base := newTestBase(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("server must not be called")
	})
	if _, err := NewReferenceClient(base).FetchReference(context.Background(), "colors"); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestCreateProductSendsMultipart(t *testing.T) {
	base := newTestBase(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != productsEndpoint {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("X-Request-ID"); got != "req-1" {
			t.Errorf("X-Request-ID = %q", got)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("ParseMultipartForm: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if got := r.FormValue(models.FieldTitle); got != "Shirt" {
			t.Errorf("title = %q", got)
		}
		if _, ok := r.MultipartForm.File["shirt.jpg"]; !ok {
			t.Error("file part shirt.jpg missing")
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"success":true,"product":{"_id":"p1","title":"Shirt"}}`))
	})

	payload := &models.Payload{}
	payload.Add(models.FieldTitle, "Shirt")
	payload.Attach(models.ImageFile{Name: "shirt.jpg", Data: []byte{0xff, 0xd8, 0xff}})

	product, err := NewProductClient(base).CreateProduct(context.Background(), "req-1", payload)
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	if product.ID != "p1" || product.Title != "Shirt" {
		t.Errorf("product = %+v", product)
	}
}

func TestCreateProductUnsuccessfulBody(t *testing.T) {
	base := newTestBase(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"message":"duplicate title"}`))
	})

	_, err := NewProductClient(base).CreateProduct(context.Background(), "", &models.Payload{})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestCancelledContextStopsRequest(t *testing.T) {
	base := newTestBase(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"success":true,"stores":[]}`))
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := NewReferenceClient(base).FetchReference(ctx, models.KindStores); err == nil {
		t.Error("expected error for cancelled request")
	}
}
