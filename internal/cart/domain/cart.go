package domain

import (
	"time"

	catalog "github.com/dwikikusuma/ec-training/internal/catalog/domain"
)

// CartItem is one line of a member's cart. ProductID is a reference; the
// product itself is owned by the catalog.
type CartItem struct {
	ID        string    `json:"id"`
	MemberID  int64     `json:"member_id"`
	ProductID int64     `json:"product_id"`
	Quantity  int       `json:"quantity"`
	AddedAt   time.Time `json:"added_at"`
}

// Line is a cart item joined with the product as it looks at read time.
type Line struct {
	CartItem
	Product catalog.Product `json:"product"`
}

func (l Line) Subtotal() int64 {
	return l.Product.Price * int64(l.Quantity)
}

func Subtotal(lines []Line) int64 {
	var total int64
	for _, l := range lines {
		total += l.Subtotal()
	}
	return total
}

func Count(lines []Line) int {
	n := 0
	for _, l := range lines {
		n += l.Quantity
	}
	return n
}
