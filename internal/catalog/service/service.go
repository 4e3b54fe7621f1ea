// Package service loads the store catalog and keeps the last listing for
// lookups by product ID.
package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"log/slog"
	"sync"

	"bazar/internal/catalog/models"
	id "bazar/pkg/domain"
	dErrors "bazar/pkg/domain-errors"
)

// CatalogAPI is the backend's catalog surface.
type CatalogAPI interface {
	ListByStore(ctx context.Context, storeID int) ([]models.Product, error)
}

// Service is safe for concurrent use.
type Service struct {
	api     CatalogAPI
	storeID int
	logger  *slog.Logger

	mu       sync.RWMutex
	products []models.Product
	byID     map[id.ProductID]int
}

// Option configures a Service.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func New(api CatalogAPI, storeID int, opts ...Option) *Service {
	s := &Service{
		api:     api,
		storeID: storeID,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Load fetches the store's catalog. A failed load empties the listing.
func (s *Service) Load(ctx context.Context) ([]models.Product, error) {
	products, err := s.api.ListByStore(ctx, s.storeID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.products = nil
		s.byID = nil
		s.logger.WarnContext(ctx, "catalog load failed", "store_id", s.storeID, "error", err)
		return nil, err
	}
	s.products = products
	s.byID = make(map[id.ProductID]int, len(products))
	for i, p := range products {
		s.byID[p.ID()] = i
	}
	s.logger.DebugContext(ctx, "catalog loaded", "store_id", s.storeID, "products", len(products))
	return append([]models.Product(nil), products...), nil
}

// Products returns the last loaded listing.
func (s *Service) Products() []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Product(nil), s.products...)
}

// Find looks a product up in the last loaded listing.
func (s *Service) Find(productID id.ProductID) (models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.byID[productID]
	if !ok {
		return models.Product{}, dErrors.New(dErrors.CodeNotFound, "product not found: "+productID.String())
	}
	return s.products[i], nil
}

// At returns the product at a 1-based position in the listing, the way the
// shell numbers products.
func (s *Service) At(position int) (models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if position < 1 || position > len(s.products) {
		return models.Product{}, dErrors.New(dErrors.CodeNotFound, "no product at that position")
	}
	return s.products[position-1], nil
}
