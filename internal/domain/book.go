package domain

// BookStatus represents where a book sits in the owner's reading lifecycle.
type BookStatus string

const (
	// StatusReading marks a book the owner is currently reading.
	StatusReading BookStatus = "reading"
	// StatusCompleted marks a finished book.
	StatusCompleted BookStatus = "completed"
	// StatusWishlist marks a book the owner intends to read. Default for new books.
	StatusWishlist BookStatus = "wishlist"
)

// ValidStatus reports whether s is one of the known book statuses.
func ValidStatus(s BookStatus) bool {
	switch s {
	case StatusReading, StatusCompleted, StatusWishlist:
		return true
	}
	return false
}

// Book is a single record in a user's personal library.
// Books are exclusively owned: only the owner can read or mutate them.
type Book struct {
	Entity
	Title   string     `json:"title"`
	Author  string     `json:"author"`
	Status  BookStatus `json:"status"`
	Rating  *float64   `json:"rating,omitempty"` // 0..5, unset when never rated
	Review  string     `json:"review,omitempty"`
	OwnerID string     `json:"owner_id"`
}

// OwnedBy reports whether the book belongs to the given user ID.
// IDs are compared as plain strings; both sides come from the same generator.
func (b *Book) OwnedBy(userID string) bool {
	return userID != "" && b.OwnerID == userID
}

// BookPatch carries a partial update. Nil fields are left untouched,
// mirroring how clients send only the fields they changed.
type BookPatch struct {
	Title  *string     `json:"title,omitempty"`
	Author *string     `json:"author,omitempty"`
	Status *BookStatus `json:"status,omitempty"`
	Rating *float64    `json:"rating,omitempty"`
	Review *string     `json:"review,omitempty"`
}

// Apply copies the defined fields of the patch onto the book and
// refreshes its UpdatedAt timestamp.
func (b *Book) Apply(p BookPatch) {
	if p.Title != nil {
		b.Title = *p.Title
	}
	if p.Author != nil {
		b.Author = *p.Author
	}
	if p.Status != nil {
		b.Status = *p.Status
	}
	if p.Rating != nil {
		b.Rating = p.Rating
	}
	if p.Review != nil {
		b.Review = *p.Review
	}
	b.Touch()
}

// IsEmpty reports whether the patch defines no fields at all.
func (p BookPatch) IsEmpty() bool {
	return p.Title == nil && p.Author == nil && p.Status == nil && p.Rating == nil && p.Review == nil
}
