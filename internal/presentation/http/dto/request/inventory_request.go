package request

// InventoryFilterRequest filters stock and audit listings
type InventoryFilterRequest struct {
	ProductID   string `form:"product_id"`
	ReferenceID string `form:"reference_id"`
	Page        int    `form:"page"`
	PerPage     int    `form:"per_page"`
}
