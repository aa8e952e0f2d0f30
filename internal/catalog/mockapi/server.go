package mockapi

import (
	"errors"
	"fmt"
	"gomarketplace_admin/internal/catalog/business/models"
	"gomarketplace_admin/internal/catalog/business/services"
	"gomarketplace_admin/metrics"
	"gomarketplace_admin/pkg/logger"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Seed справочники, которые отдаёт сервер.
type Seed struct {
	Categories []models.ReferenceItem
	Brands     []models.ReferenceItem
	Stores     []models.ReferenceItem
}

func DefaultSeed() Seed {
	return Seed{
		Categories: []models.ReferenceItem{{ID: "c1", Title: "Shirts"}, {ID: "c2", Title: "Hats"}, {ID: "c3", Title: "Shoes"}},
		Brands:     []models.ReferenceItem{{ID: "b1", Title: "Acme"}, {ID: "b2", Title: "Northwind"}},
		Stores:     []models.ReferenceItem{{ID: "s1", Title: "Main store"}, {ID: "s2", Title: "Outlet"}},
	}
}

func (s Seed) list(kind models.ReferenceKind) []models.ReferenceItem {
	switch kind {
	case models.KindCategories:
		return s.Categories
	case models.KindBrands:
		return s.Brands
	case models.KindStores:
		return s.Stores
	}
	return nil
}

// Credentials как сервер проверяет bearer-токен. Если задан ApiKey, токен
// сравнивается с ним; если JWTSecret, токен разбирается как HS256 JWT.
// Без обоих принимается любой непустой токен.
type Credentials struct {
	ApiKey    string
	JWTSecret string
}

type createProductRequest struct {
	Title                           string `form:"title" binding:"required"`
	Description                     string `form:"description" binding:"required"`
	Price                           string `form:"price" binding:"required"`
	Discount                        string `form:"discount"`
	Weight                          string `form:"weight"`
	Stock                           int    `form:"stock" binding:"gte=0"`
	Category                        string `form:"category" binding:"required"`
	Brand                           string `form:"brand" binding:"required"`
	Store                           string `form:"store" binding:"required"`
	LocalShipmentPolicy             string `form:"localShipmentPolicy" binding:"required,oneof=standard free custom"`
	InternationalShipmentPolicy     string `form:"internationalShipmentPolicy" binding:"required,oneof=standard free custom"`
	CustomLocalShipmentCost         string `form:"customLocalShipmentCost"`
	InternationalCustomShipmentCost string `form:"internationalCustomShipmentCost"`
}

// Server локальная реализация API каталога для разработки.
type Server struct {
	seed  Seed
	creds Credentials
	log   logger.Logger

	mu       sync.RWMutex
	products []models.CreatedProduct
}

func NewServer(seed Seed, creds Credentials, log logger.Logger) *Server {
	return &Server{seed: seed, creds: creds, log: log}
}

func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.MaxMultipartMemory = 32 << 20

	router.GET("/metrics", gin.WrapH(metrics.MetricsHandler()))

	api := router.Group("/api", s.requireBearer)
	{
		for _, kind := range models.ReferenceKinds {
			api.GET("/"+string(kind), s.listReference(kind))
		}
		api.GET("/products", s.listProducts)
		api.POST("/products", s.createProduct)
	}
	return router
}

func (s *Server) Products() []models.CreatedProduct {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.CreatedProduct(nil), s.products...)
}

func fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "message": message})
}

func (s *Server) requireBearer(c *gin.Context) {
	header := c.GetHeader("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		fail(c, http.StatusUnauthorized, "missing bearer token")
		return
	}
	if err := s.checkToken(token); err != nil {
		s.log.Log("rejected token: %s", err)
		fail(c, http.StatusUnauthorized, "invalid token")
		return
	}
	c.Next()
}

func (s *Server) checkToken(token string) error {
	switch {
	case s.creds.ApiKey != "":
		if token != s.creds.ApiKey {
			return errors.New("api key mismatch")
		}
		return nil
	case s.creds.JWTSecret != "":
		claims := &services.Claims{}
		_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return []byte(s.creds.JWTSecret), nil
		})
		if err != nil {
			return err
		}
		if claims.Role != "admin" {
			return fmt.Errorf("role %q is not allowed", claims.Role)
		}
		return nil
	}
	return nil
}

func (s *Server) listReference(kind models.ReferenceKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		items := s.seed.list(kind)
		if items == nil {
			items = []models.ReferenceItem{}
		}
		c.JSON(http.StatusOK, gin.H{"success": true, string(kind): items})
	}
}

func (s *Server) listProducts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "products": s.Products()})
}

func (s *Server) createProduct(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBind(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	if _, err := decimal.NewFromString(req.Price); err != nil {
		fail(c, http.StatusBadRequest, "price is not a number")
		return
	}
	for kind, id := range map[models.ReferenceKind]string{
		models.KindCategories: req.Category,
		models.KindBrands:     req.Brand,
		models.KindStores:     req.Store,
	} {
		if !contains(s.seed.list(kind), id) {
			fail(c, http.StatusBadRequest, fmt.Sprintf("unknown %s %q", kind, id))
			return
		}
	}
	if err := checkCustomCost(req.LocalShipmentPolicy, req.CustomLocalShipmentCost); err != nil {
		fail(c, http.StatusBadRequest, "local shipment: "+err.Error())
		return
	}
	if err := checkCustomCost(req.InternationalShipmentPolicy, req.InternationalCustomShipmentCost); err != nil {
		fail(c, http.StatusBadRequest, "international shipment: "+err.Error())
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		fail(c, http.StatusBadRequest, "multipart form expected")
		return
	}
	var images []string
	for _, headers := range form.File {
		for _, fh := range headers {
			images = append(images, fh.Filename)
		}
	}
	if len(images) == 0 {
		fail(c, http.StatusBadRequest, "at least one image is required")
		return
	}
	sort.Strings(images)

	product := models.CreatedProduct{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Brand:       req.Brand,
		Store:       req.Store,
		Images:      images,
	}

	s.mu.Lock()
	s.products = append(s.products, product)
	s.mu.Unlock()

	s.log.Log("created product %s %q (request %s, %d images)", product.ID, product.Title, c.GetHeader("X-Request-ID"), len(images))
	c.JSON(http.StatusCreated, gin.H{"success": true, "product": product})
}

func checkCustomCost(policy, cost string) error {
	if policy != string(models.PolicyCustom) {
		return nil
	}
	value, err := decimal.NewFromString(cost)
	if err != nil {
		return errors.New("custom cost is required")
	}
	if value.LessThan(decimal.NewFromInt(1)) {
		return errors.New("custom cost must be at least 1")
	}
	return nil
}

func contains(items []models.ReferenceItem, id string) bool {
	for _, it := range items {
		if it.ID == id {
			return true
		}
	}
	return false
}
