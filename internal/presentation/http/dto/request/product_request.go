package request

import "github.com/eazyque/eazyque-api/internal/application/service"

// ProductFilterRequest represents product filter parameters
type ProductFilterRequest struct {
	Search     string `form:"search"`
	Category   string `form:"category"`
	ActiveOnly bool   `form:"active_only"`
	SortBy     string `form:"sort_by"`
	SortOrder  string `form:"sort_order"`
	Page       int    `form:"page"`
	PerPage    int    `form:"per_page"`
}

// ImportProductsRequest is a bulk catalogue upload
type ImportProductsRequest struct {
	Products []service.ImportProductRow `json:"products" binding:"required,min=1,max=1000"`
}
