package catalog

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrNotFound       = errors.New("product not found")
	ErrStorage        = errors.New("catalog storage failure")
	ErrMalformedStore = errors.New("catalog document is malformed")
)

const (
	EventsQueue  = "catalog.events"
	EventCreated = "product_created"
	EventUpdated = "product_updated"
	EventDeleted = "product_deleted"
)

const (
	CategoryReadyToWear   = "READY TO WEAR"
	CategoryNewCollection = "NEW COLLECTION"
	CategoryShoes         = "SHOES"
)

// Categories lists the accepted product categories in display order.
var Categories = []string{CategoryReadyToWear, CategoryNewCollection, CategoryShoes}

type Product struct {
	ID          string    `json:"id" example:"0b9f7c1e-3f4a-4d0e-9c3b-1f2a3b4c5d6e"`
	Name        string    `json:"name" example:"Tee"`
	Description string    `json:"description" example:"Cotton tee"`
	Price       float64   `json:"price" example:"29.99"`
	Category    string    `json:"category" example:"READY TO WEAR"`
	ImageURL    string    `json:"imageUrl" example:"https://example.com/a.jpg"`
	CreatedAt   time.Time `json:"createdAt" example:"2026-02-24T12:00:00Z"`
	UpdatedAt   time.Time `json:"updatedAt" example:"2026-02-24T12:00:00Z"`
}

// Input is the caller-supplied part of a product, used by create and update.
type Input struct {
	Name        string `json:"name" example:"Tee"`
	Description string `json:"description" example:"Cotton tee"`
	Price       Price  `json:"price" swaggertype:"number" example:"29.99"`
	Category    string `json:"category" example:"READY TO WEAR"`
	ImageURL    string `json:"imageUrl" example:"https://example.com/a.jpg"`
}

type ProductEvent struct {
	EventType string    `json:"event_type"`
	ProductID string    `json:"product_id"`
	Name      string    `json:"name,omitempty"`
	Category  string    `json:"category,omitempty"`
	Price     float64   `json:"price,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ValidationError carries every rule an Input violated, in rule order.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "invalid product: " + strings.Join(e.Messages, "; ")
}
