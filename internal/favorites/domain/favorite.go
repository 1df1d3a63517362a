package domain

import "time"

// Favorite is one product a shopper saved for later, with enough catalog
// data cached to render the favorites page without a catalog round trip.
type Favorite struct {
	ProductID   string
	Name        string
	PriceAmount int64
	Currency    string
	ImageURL    string
	AddedAt     time.Time
}
