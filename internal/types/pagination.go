package types

// PageInfo contains pagination metadata for list responses.
type PageInfo struct {
	Limit      int  `json:"limit"`
	Skip       int  `json:"skip"`
	TotalItems *int `json:"total_items,omitempty"`
}

// ListResponse is a generic paginated response wrapper.
type ListResponse[T any] struct {
	Data     []T      `json:"data"`
	PageInfo PageInfo `json:"pagination"`
}
