package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSeedStatusMatchesStock(t *testing.T) {
	for _, p := range Seed() {
		assert.Equal(t, p.Stock == 0, p.Status == StatusOutOfStock, "product %d", p.ID)
	}
}

func TestTakeFlipsStatusAtZero(t *testing.T) {
	p := Product{ID: 7, Stock: 5}
	p.SyncStatus()

	p.Take(4, time.Now())
	assert.Equal(t, 1, p.Stock)
	assert.Equal(t, StatusAvailable, p.Status)

	p.Take(1, time.Now())
	assert.Equal(t, 0, p.Stock)
	assert.Equal(t, StatusOutOfStock, p.Status)
}

func TestFilterMatch(t *testing.T) {
	mouse := Product{Name: "Wireless Mouse", Price: 1980, Stock: 100, Category: CategoryElectronics}
	soldOut := Product{Name: "Building Web Apps", Price: 2980, Stock: 0, Category: CategoryBooks}

	tests := []struct {
		name   string
		filter Filter
		p      Product
		want   bool
	}{
		{"empty filter", Filter{}, soldOut, true},
		{"category hit", Filter{Category: CategoryElectronics}, mouse, true},
		{"category miss", Filter{Category: CategoryBooks}, mouse, false},
		{"in stock hides sold out", Filter{InStock: true}, soldOut, false},
		{"min price", Filter{MinPrice: 2000}, mouse, false},
		{"max price", Filter{MaxPrice: 2000}, mouse, true},
		{"price window", Filter{MinPrice: 1000, MaxPrice: 1980}, mouse, true},
		{"search is case insensitive", Filter{Search: "MOUSE"}, mouse, true},
		{"search miss", Filter{Search: "keyboard"}, mouse, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Match(tt.p))
		})
	}
}
