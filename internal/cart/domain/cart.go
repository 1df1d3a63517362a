package domain

import "time"

type Money struct {
	Currency string
	Amount   int64
}

// ProductSnapshot is the catalog data cached on a cart line so the cart can
// render without a catalog round trip. Validated at the boundary where the
// product enters the cart.
type ProductSnapshot struct {
	ID          string
	Name        string
	Description string
	UnitPrice   Money
	ImageURL    string
	Category    string
	Stock       int32
}

// CartLine is one product-and-quantity entry. Quantity is always >= 1; a
// quantity dropping to zero or below removes the line instead.
type CartLine struct {
	ProductID string
	Quantity  int32
	Product   ProductSnapshot
	AddedAt   time.Time
}

// Lines is a cart projection in display order: insertion order for the local
// store, creation-timestamp order for remote rows.
type Lines []CartLine

type Totals struct {
	Items  int32
	Amount Money
}

// Find returns the index of the line for productID, or -1.
func (ls Lines) Find(productID string) int {
	for i := range ls {
		if ls[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// Add increments the existing line for p by one, or appends a new line with
// quantity 1. At most one line per product is ever kept.
func (ls Lines) Add(p ProductSnapshot, now time.Time) Lines {
	if i := ls.Find(p.ID); i >= 0 {
		out := ls.clone()
		out[i].Quantity++
		out[i].Product = p
		return out
	}

	out := ls.clone()
	return append(out, CartLine{
		ProductID: p.ID,
		Quantity:  1,
		Product:   p,
		AddedAt:   now,
	})
}

// SetQuantity sets the line's quantity to an absolute value. qty <= 0 removes
// the line; setting a product that is not in the cart is a no-op.
func (ls Lines) SetQuantity(productID string, qty int32) Lines {
	if qty <= 0 {
		return ls.Remove(productID)
	}

	i := ls.Find(productID)
	if i < 0 {
		return ls
	}

	out := ls.clone()
	out[i].Quantity = qty
	return out
}

// Remove drops the line for productID; absent lines are a no-op.
func (ls Lines) Remove(productID string) Lines {
	i := ls.Find(productID)
	if i < 0 {
		return ls
	}

	out := make(Lines, 0, len(ls)-1)
	out = append(out, ls[:i]...)
	out = append(out, ls[i+1:]...)
	return out
}

// Totals recomputes item count and total price from the lines. Pure; never
// cached.
func (ls Lines) Totals() Totals {
	var t Totals
	for _, l := range ls {
		t.Items += l.Quantity
		t.Amount.Amount += int64(l.Quantity) * l.Product.UnitPrice.Amount
		if t.Amount.Currency == "" {
			t.Amount.Currency = l.Product.UnitPrice.Currency
		}
	}
	return t
}

func (ls Lines) clone() Lines {
	out := make(Lines, len(ls))
	copy(out, ls)
	return out
}
