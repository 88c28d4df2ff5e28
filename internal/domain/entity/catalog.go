// Package entity contains the core business objects of the project.
package entity

// CategorySummary is a deduplicated menu category name with the number of
// stores that carry it, for the category browse screen.
type CategorySummary struct {
	Name       string // Category display name.
	StoreCount int    // Number of distinct stores with a category of this name.
}

// Product is a menu item flattened with its store and category context,
// for the cross-store product listing.
type Product struct {
	StoreSlug       string // Slug of the store that sells the item.
	StoreName       string // Display name of that store.
	CategoryName    string // Menu category the item belongs to.
	AvgDeliveryTime string // The store's advertised delivery window.
	DeliveryFee     string // The store's display-form delivery fee.
	FreeDelivery    bool   // True when the store waives the delivery fee.
	Item            MenuItem
}
