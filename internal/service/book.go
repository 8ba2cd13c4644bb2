package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shelfmarkapp/shelfmark-server/internal/cache"
	"github.com/shelfmarkapp/shelfmark-server/internal/domain"
	domainerrors "github.com/shelfmarkapp/shelfmark-server/internal/errors"
	"github.com/shelfmarkapp/shelfmark-server/internal/id"
	"github.com/shelfmarkapp/shelfmark-server/internal/logger"
	"github.com/shelfmarkapp/shelfmark-server/internal/store"
	"github.com/shelfmarkapp/shelfmark-server/internal/validation"
)

// BookService owns the book lifecycle: CRUD with ownership enforcement
// and the cache-aside read layer. Reads go through the cache; every
// write invalidates the book's item key and the owner's list prefix.
type BookService struct {
	store     *store.Store
	cache     *cache.Store
	validator *validation.Validator
	logger    *logger.Logger
}

// NewBookService creates a new book service.
func NewBookService(st *store.Store, cs *cache.Store, v *validation.Validator, log *logger.Logger) *BookService {
	return &BookService{
		store:     st,
		cache:     cs,
		validator: v,
		logger:    log,
	}
}

// CreateBookRequest contains the fields for a new book.
type CreateBookRequest struct {
	Title  string   `json:"title" validate:"required,max=500"`
	Author string   `json:"author" validate:"required,max=500"`
	Status string   `json:"status,omitempty" validate:"omitempty,oneof=reading completed wishlist"`
	Rating *float64 `json:"rating,omitempty" validate:"omitempty,gte=0,lte=5"`
	Review string   `json:"review,omitempty" validate:"max=5000"`
}

// UpdateBookRequest contains a partial update. Only non-nil fields are
// applied; a field absent from the request is left untouched.
type UpdateBookRequest struct {
	Title  *string  `json:"title,omitempty" validate:"omitempty,min=1,max=500"`
	Author *string  `json:"author,omitempty" validate:"omitempty,min=1,max=500"`
	Status *string  `json:"status,omitempty" validate:"omitempty,oneof=reading completed wishlist"`
	Rating *float64 `json:"rating,omitempty" validate:"omitempty,gte=0,lte=5"`
	Review *string  `json:"review,omitempty" validate:"omitempty,max=5000"`
}

// ListBooksParams narrows a listing request.
type ListBooksParams struct {
	Page   int
	Limit  int
	Status string // Optional status filter
}

// Create stores a new book for owner and invalidates their cached lists.
func (s *BookService) Create(ctx context.Context, ownerID string, req CreateBookRequest) (*domain.Book, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	bookID, err := id.Generate("book")
	if err != nil {
		return nil, fmt.Errorf("generate book ID: %w", err)
	}

	status := domain.BookStatus(req.Status)
	if status == "" {
		status = domain.StatusWishlist
	}

	book := &domain.Book{
		Entity:  domain.Entity{ID: bookID},
		Title:   req.Title,
		Author:  req.Author,
		Status:  status,
		Rating:  req.Rating,
		Review:  req.Review,
		OwnerID: ownerID,
	}
	book.InitTimestamps()

	if err := s.store.CreateBook(ctx, book); err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}

	// A cached list page from before this write is now stale.
	s.cache.InvalidatePrefix(ctx, cache.OwnerListPrefix(ownerID))

	s.logger.Info("Book created", "book_id", bookID, "owner_id", ownerID)
	return book, nil
}

// List returns one page of the owner's books, most recently updated
// first. The full paginated envelope is cached per owner, page, limit
// and filter combination.
func (s *BookService) List(ctx context.Context, ownerID string, params ListBooksParams) (store.PaginatedResult[*domain.Book], error) {
	if params.Status != "" && !domain.ValidStatus(domain.BookStatus(params.Status)) {
		return store.PaginatedResult[*domain.Book]{}, domainerrors.Validation("status must be one of: reading, completed, wishlist")
	}

	pageParams := store.PageParams{Page: params.Page, Limit: params.Limit}
	pageParams.Normalize()

	filter := map[string]string{}
	if params.Status != "" {
		filter["status"] = params.Status
	}
	key := cache.ListKey(ownerID, pageParams.Page, pageParams.Limit, filter, nil)

	return cache.ReadThrough(ctx, s.cache, key, func(ctx context.Context) (store.PaginatedResult[*domain.Book], error) {
		books, err := s.store.ListBooksByOwner(ctx, ownerID, domain.BookStatus(params.Status))
		if err != nil {
			return store.PaginatedResult[*domain.Book]{}, fmt.Errorf("list books: %w", err)
		}
		return store.Paginate(books, pageParams), nil
	})
}

// GetOne returns a single book by ID with the ownership check applied
// on both the cache-hit and cache-miss paths. Cached entries are
// owner-agnostic, so a hit is never trusted without re-verification.
func (s *BookService) GetOne(ctx context.Context, bookID, ownerID string) (*domain.Book, error) {
	book, err := cache.ReadThrough(ctx, s.cache, cache.ItemKey(bookID), func(ctx context.Context) (*domain.Book, error) {
		book, err := s.store.GetBook(ctx, bookID)
		if errors.Is(err, store.ErrBookNotFound) {
			return nil, domainerrors.NotFound("Book not found")
		}
		if err != nil {
			return nil, fmt.Errorf("get book: %w", err)
		}
		if !book.OwnedBy(ownerID) {
			return nil, domainerrors.Forbidden("You do not have access to this book")
		}
		return book, nil
	})
	if err != nil {
		return nil, err
	}

	// Re-check on the hit path too.
	if !book.OwnedBy(ownerID) {
		return nil, domainerrors.Forbidden("You do not have access to this book")
	}
	return book, nil
}

// Update applies a partial update after re-checking existence and
// ownership against the persistent store, never the cache.
func (s *BookService) Update(ctx context.Context, bookID, ownerID string, req UpdateBookRequest) (*domain.Book, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	patch := domain.BookPatch{
		Title:  req.Title,
		Author: req.Author,
		Rating: req.Rating,
		Review: req.Review,
	}
	if req.Status != nil {
		status := domain.BookStatus(*req.Status)
		patch.Status = &status
	}
	if patch.IsEmpty() {
		return nil, domainerrors.BadRequest("No fields to update")
	}

	book, err := s.loadOwned(ctx, bookID, ownerID)
	if err != nil {
		return nil, err
	}

	book.Apply(patch)
	if err := s.store.UpdateBook(ctx, book); err != nil {
		return nil, fmt.Errorf("update book: %w", err)
	}

	s.invalidateBook(ctx, bookID, ownerID)

	s.logger.Info("Book updated", "book_id", bookID, "owner_id", ownerID)
	return book, nil
}

// Remove hard-deletes a book after the existence and ownership checks.
func (s *BookService) Remove(ctx context.Context, bookID, ownerID string) error {
	if _, err := s.loadOwned(ctx, bookID, ownerID); err != nil {
		return err
	}

	if err := s.store.DeleteBook(ctx, bookID); err != nil {
		if errors.Is(err, store.ErrBookNotFound) {
			return domainerrors.NotFound("Book not found")
		}
		return fmt.Errorf("delete book: %w", err)
	}

	s.invalidateBook(ctx, bookID, ownerID)

	s.logger.Info("Book deleted", "book_id", bookID, "owner_id", ownerID)
	return nil
}

// loadOwned fetches a book straight from the store and enforces the
// ownership policy: absent is NotFound, someone else's is Forbidden.
func (s *BookService) loadOwned(ctx context.Context, bookID, ownerID string) (*domain.Book, error) {
	book, err := s.store.GetBook(ctx, bookID)
	if errors.Is(err, store.ErrBookNotFound) {
		return nil, domainerrors.NotFound("Book not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get book: %w", err)
	}
	if !book.OwnedBy(ownerID) {
		return nil, domainerrors.Forbidden("You do not have access to this book")
	}
	return book, nil
}

// invalidateBook drops the single-item key and every cached list page
// of the owner. Persist then invalidate is not transactional; a stale
// entry surviving a crash between the two expires with its TTL.
func (s *BookService) invalidateBook(ctx context.Context, bookID, ownerID string) {
	s.cache.Invalidate(ctx, cache.ItemKey(bookID))
	s.cache.InvalidatePrefix(ctx, cache.OwnerListPrefix(ownerID))
}
