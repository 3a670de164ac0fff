package models

import "time"

// Product is a catalog item. ImageKeys are object-storage keys; resolving
// them to URLs is the storage layer's concern.
type Product struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"categorie"`
	SubCategory string    `json:"sub_categorie"`
	Price       float64   `json:"price"`
	ImageKeys   []string  `json:"images"`
	CreatedBy   string    `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ProductFilter narrows a catalog listing. Zero values mean "no constraint";
// MaxPrice <= 0 disables the upper bound.
type ProductFilter struct {
	Category    string
	SubCategory string
	MinPrice    float64
	MaxPrice    float64
	Page        int
	PerPage     int
}
