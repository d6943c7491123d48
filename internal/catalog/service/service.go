package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"product-catalog/internal/catalog"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

// minUpdateStep is how far updatedAt is pushed past its previous value when
// the clock has not moved since the last write.
const minUpdateStep = time.Millisecond

type Store interface {
	LoadAll(ctx context.Context) ([]catalog.Product, error)
	SaveAll(ctx context.Context, items []catalog.Product) error
}

type Publisher interface {
	Publish(ctx context.Context, event catalog.ProductEvent) error
}

type Metrics struct {
	Created prometheus.Counter
	Updated prometheus.Counter
	Deleted prometheus.Counter
}

// ListQuery selects a page of the catalog. An empty Category matches every
// product; a Limit of zero or less means everything after Offset.
type ListQuery struct {
	Category string
	Offset   int
	Limit    int
}

type ListResult struct {
	Items  []catalog.Product
	Total  int
	Offset int
	Limit  int
}

// Service runs every operation as a full load-mutate-save cycle over the
// store. Writers hold the lock exclusively so concurrent requests in this
// process cannot lose each other's updates.
type Service struct {
	store     Store
	publisher Publisher
	logger    *slog.Logger
	metrics   Metrics

	now   func() time.Time
	newID func() string

	mu sync.RWMutex
}

func New(store Store, publisher Publisher, logger *slog.Logger, metrics Metrics) *Service {
	return &Service{
		store:     store,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
		now:       func() time.Time { return time.Now().UTC() },
		newID:     uuid.NewString,
	}
}

func (s *Service) ListProducts(ctx context.Context, q ListQuery) (ListResult, error) {
	s.mu.RLock()
	items, err := s.load(ctx, "list")
	s.mu.RUnlock()
	if err != nil {
		return ListResult{}, err
	}

	filtered := items
	if q.Category != "" {
		filtered = make([]catalog.Product, 0, len(items))
		for _, p := range items {
			if strings.EqualFold(p.Category, q.Category) {
				filtered = append(filtered, p)
			}
		}
	}

	total := len(filtered)
	offset := max(q.Offset, 0)
	start := min(offset, total)

	limit := q.Limit
	if limit <= 0 {
		limit = total
	}
	end := total
	if limit < total-start {
		end = start + limit
	}

	page := make([]catalog.Product, end-start)
	copy(page, filtered[start:end])

	return ListResult{
		Items:  page,
		Total:  total,
		Offset: offset,
		Limit:  limit,
	}, nil
}

func (s *Service) GetProduct(ctx context.Context, id string) (catalog.Product, error) {
	s.mu.RLock()
	items, err := s.load(ctx, "get")
	s.mu.RUnlock()
	if err != nil {
		return catalog.Product{}, err
	}

	idx := indexOf(items, id)
	if idx < 0 {
		return catalog.Product{}, catalog.ErrNotFound
	}
	return items[idx], nil
}

func (s *Service) CreateProduct(ctx context.Context, in catalog.Input) (catalog.Product, error) {
	if msgs := catalog.Validate(in); len(msgs) > 0 {
		return catalog.Product{}, &catalog.ValidationError{Messages: msgs}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load(ctx, "create")
	if err != nil {
		return catalog.Product{}, err
	}

	id := s.newID()
	for indexOf(items, id) >= 0 {
		id = s.newID()
	}

	now := s.now()
	product := catalog.Product{ID: id, CreatedAt: now, UpdatedAt: now}.Apply(in)

	next := slices.Concat(items, []catalog.Product{product})
	if err := s.save(ctx, "create", next); err != nil {
		return catalog.Product{}, err
	}

	s.publish(ctx, catalog.EventCreated, product)
	s.metrics.Created.Inc()
	return product, nil
}

// UpdateProduct replaces every mutable field of the product; partial updates
// are not supported. id and createdAt never change.
func (s *Service) UpdateProduct(ctx context.Context, id string, in catalog.Input) (catalog.Product, error) {
	if msgs := catalog.Validate(in); len(msgs) > 0 {
		return catalog.Product{}, &catalog.ValidationError{Messages: msgs}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load(ctx, "update")
	if err != nil {
		return catalog.Product{}, err
	}

	idx := indexOf(items, id)
	if idx < 0 {
		return catalog.Product{}, catalog.ErrNotFound
	}

	existing := items[idx]
	updated := existing.Apply(in)
	updated.UpdatedAt = s.now()
	if !updated.UpdatedAt.After(existing.UpdatedAt) {
		updated.UpdatedAt = existing.UpdatedAt.Add(minUpdateStep)
	}

	next := slices.Clone(items)
	next[idx] = updated
	if err := s.save(ctx, "update", next); err != nil {
		return catalog.Product{}, err
	}

	s.publish(ctx, catalog.EventUpdated, updated)
	s.metrics.Updated.Inc()
	return updated, nil
}

func (s *Service) DeleteProduct(ctx context.Context, id string) (catalog.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load(ctx, "delete")
	if err != nil {
		return catalog.Product{}, err
	}

	idx := indexOf(items, id)
	if idx < 0 {
		return catalog.Product{}, catalog.ErrNotFound
	}

	removed := items[idx]
	next := slices.Delete(slices.Clone(items), idx, idx+1)
	if err := s.save(ctx, "delete", next); err != nil {
		return catalog.Product{}, err
	}

	s.publish(ctx, catalog.EventDeleted, removed)
	s.metrics.Deleted.Inc()
	return removed, nil
}

func (s *Service) load(ctx context.Context, op string) ([]catalog.Product, error) {
	items, err := s.store.LoadAll(ctx)
	if err != nil {
		s.logger.Error("load catalog failed", "op", op, "error", err)
		return nil, fmt.Errorf("%w: load: %w", catalog.ErrStorage, err)
	}
	return items, nil
}

func (s *Service) save(ctx context.Context, op string, items []catalog.Product) error {
	if err := s.store.SaveAll(ctx, items); err != nil {
		s.logger.Error("save catalog failed", "op", op, "error", err)
		return fmt.Errorf("%w: save: %w", catalog.ErrStorage, err)
	}
	return nil
}

func (s *Service) publish(ctx context.Context, eventType string, p catalog.Product) {
	if err := s.publisher.Publish(ctx, catalog.ProductEvent{
		EventType: eventType,
		ProductID: p.ID,
		Name:      p.Name,
		Category:  p.Category,
		Price:     p.Price,
		Timestamp: s.now(),
	}); err != nil {
		s.logger.Error("publish "+eventType+" event failed",
			"product_id", p.ID,
			"error", err,
		)
	}
}

func indexOf(items []catalog.Product, id string) int {
	return slices.IndexFunc(items, func(p catalog.Product) bool { return p.ID == id })
}
