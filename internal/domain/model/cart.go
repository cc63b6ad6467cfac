package model

// CartItem is one line of a principal's cart as stored.
type CartItem struct {
	ProductID string `json:"product"`
	Quantity  int    `json:"quantity"`
}

// CartLine is a cart item resolved against the catalog.
type CartLine struct {
	Product
	Quantity int `json:"quantity"`
}
