package http

const (
	UserIDHeader    = "X-User-ID"
	CartItemIDParam = "itemID"
)
