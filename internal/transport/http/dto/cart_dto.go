package dto

type AddToCartRequest struct {
	ProductID string `json:"productId"`
}

// RemoveFromCartRequest with an empty ProductID empties the cart.
type RemoveFromCartRequest struct {
	ProductID string `json:"productId"`
}

type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity"`
}
