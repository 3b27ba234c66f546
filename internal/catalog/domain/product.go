package domain

import (
	"strings"
	"time"
)

type Status string

const (
	StatusAvailable  Status = "available"
	StatusOutOfStock Status = "out_of_stock"
)

// Product prices are in the smallest currency unit.
type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Price       int64     `json:"price"`
	Stock       int       `json:"stock"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Status      Status    `json:"status"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SyncStatus derives Status from Stock. Every stock write must call it.
func (p *Product) SyncStatus() {
	if p.Stock == 0 {
		p.Status = StatusOutOfStock
		return
	}
	p.Status = StatusAvailable
}

// Take removes qty units from stock. The caller has already checked that
// enough stock is left.
func (p *Product) Take(qty int, at time.Time) {
	p.Stock -= qty
	p.UpdatedAt = at
	p.SyncStatus()
}

// Filter narrows a product listing. Zero values mean "no constraint".
type Filter struct {
	Category string `json:"category,omitempty"`
	InStock  bool   `json:"in_stock,omitempty"`
	MinPrice int64  `json:"min_price,omitempty"`
	MaxPrice int64  `json:"max_price,omitempty"`
	Search   string `json:"search,omitempty"`
}

func (f Filter) Match(p Product) bool {
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.InStock && p.Stock <= 0 {
		return false
	}
	if f.MinPrice > 0 && p.Price < f.MinPrice {
		return false
	}
	if f.MaxPrice > 0 && p.Price > f.MaxPrice {
		return false
	}
	if s := strings.TrimSpace(f.Search); s != "" &&
		!strings.Contains(strings.ToLower(p.Name), strings.ToLower(s)) {
		return false
	}
	return true
}
