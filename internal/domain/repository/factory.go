package repository

// Factory describes access to different domain repositories.
type Factory interface {
	Carts() CartRepository
	Orders() OrderRepository
	Catalog() CatalogRepository
	Ratings() RatingRepository
}
