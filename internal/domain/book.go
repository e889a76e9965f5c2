package domain

import "time"

type BookStatus string

const (
	BookStatusAvailable   BookStatus = "available"
	BookStatusLowStock    BookStatus = "low_stock"
	BookStatusUnavailable BookStatus = "unavailable"
)

type Book struct {
	ID              int32      `json:"id"`
	ISBN            string     `json:"isbn"`
	Title           string     `json:"title"`
	Author          string     `json:"author"`
	Publisher       string     `json:"publisher"`
	PublishedYear   int32      `json:"published_year"`
	Category        string     `json:"category"`
	Description     string     `json:"description"`
	CoverURL        string     `json:"cover_url"`
	ShelfLocation   string     `json:"shelf_location"`
	TotalCopies     int32      `json:"total_copies"`
	AvailableCopies int32      `json:"available_copies"`
	Status          BookStatus `json:"status"`
	CreatedOn       time.Time  `json:"created_on"`
	UpdatedOn       time.Time  `json:"updated_on"`
}

// StatusFor derives the stored status from an availability count. The same
// rule is applied inside the circulation procedures' SQL so the stored value
// never drifts from the counter.
func StatusFor(available, lowStockThreshold int32) BookStatus {
	switch {
	case available <= 0:
		return BookStatusUnavailable
	case available <= lowStockThreshold:
		return BookStatusLowStock
	default:
		return BookStatusAvailable
	}
}
