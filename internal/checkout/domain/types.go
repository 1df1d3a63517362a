package domain

type Money struct {
	Currency string
	Amount   int64
}

type QuoteLine struct {
	ProductID string
	Name      string
	Quantity  int64
	UnitPrice Money
	LineTotal Money
}

type Quote struct {
	Lines []QuoteLine
	Total Money
}

// Payer is the descriptor relayed to the payment provider.
type Payer struct {
	Name  string
	Email string
}

// PaymentSession is the provider's hosted-checkout handle: the shopper is
// redirected to URL to pay.
type PaymentSession struct {
	ID  string
	URL string
}
