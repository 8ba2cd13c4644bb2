package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/shelfmarkapp/shelfmark-server/internal/domain"
	"github.com/shelfmarkapp/shelfmark-server/internal/service"
)

func (s *Server) registerBookRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "createBook",
		Method:        http.MethodPost,
		Path:          "/api/v1/books",
		Summary:       "Create book",
		Description:   "Adds a book to the caller's library",
		Tags:          []string{"Books"},
		Security:      []map[string][]string{{"session": {}}},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "listBooks",
		Method:      http.MethodGet,
		Path:        "/api/v1/books",
		Summary:     "List books",
		Description: "Returns one page of the caller's books, most recently updated first",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"session": {}}},
	}, s.handleListBooks)

	huma.Register(s.api, huma.Operation{
		OperationID: "getBook",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/{id}",
		Summary:     "Get book",
		Description: "Returns a book by ID",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"session": {}}},
	}, s.handleGetBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateBook",
		Method:      http.MethodPatch,
		Path:        "/api/v1/books/{id}",
		Summary:     "Update book",
		Description: "Applies a partial update to a book",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"session": {}}},
	}, s.handleUpdateBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteBook",
		Method:      http.MethodDelete,
		Path:        "/api/v1/books/{id}",
		Summary:     "Delete book",
		Description: "Removes a book from the caller's library",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"session": {}}},
	}, s.handleDeleteBook)
}

// === DTOs ===

// BookResponse contains book data in API responses.
type BookResponse struct {
	ID        string    `json:"id" doc:"Book ID"`
	Title     string    `json:"title" doc:"Title"`
	Author    string    `json:"author" doc:"Author"`
	Status    string    `json:"status" doc:"Reading status" enum:"reading,completed,wishlist"`
	Rating    *float64  `json:"rating,omitempty" doc:"Rating from 0 to 5"`
	Review    string    `json:"review,omitempty" doc:"Free-form review text"`
	CreatedAt time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt time.Time `json:"updated_at" doc:"Last update time"`
}

func newBookResponse(b *domain.Book) BookResponse {
	return BookResponse{
		ID:        b.ID,
		Title:     b.Title,
		Author:    b.Author,
		Status:    string(b.Status),
		Rating:    b.Rating,
		Review:    b.Review,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

// BookBody is the envelope for single-book responses.
type BookBody struct {
	Message string       `json:"message" doc:"Confirmation message"`
	Data    BookResponse `json:"data" doc:"The book"`
}

// BookOutput wraps a single-book envelope for Huma.
type BookOutput struct {
	Body BookBody
}

// CreateBookInput wraps the create request for Huma.
type CreateBookInput struct {
	Body service.CreateBookRequest
}

// ListBooksInput contains the listing query parameters.
type ListBooksInput struct {
	Page   int    `query:"page" minimum:"1" default:"1" doc:"1-based page number"`
	Limit  int    `query:"limit" minimum:"1" maximum:"100" default:"10" doc:"Items per page"`
	Status string `query:"status" enum:"reading,completed,wishlist," doc:"Optional status filter"`
}

// ListBooksBody is the paginated envelope for listing responses.
type ListBooksBody struct {
	Message    string         `json:"message" doc:"Confirmation message"`
	Data       []BookResponse `json:"data" doc:"One page of books"`
	Total      int            `json:"total" doc:"Total matching books"`
	Page       int            `json:"page" doc:"Current page"`
	Limit      int            `json:"limit" doc:"Items per page"`
	TotalPages int            `json:"totalPages" doc:"Total number of pages"`
}

// ListBooksOutput wraps the paginated envelope for Huma.
type ListBooksOutput struct {
	Body ListBooksBody
}

// GetBookInput contains parameters for fetching one book.
type GetBookInput struct {
	ID string `path:"id" doc:"Book ID"`
}

// UpdateBookInput wraps the partial update for Huma.
type UpdateBookInput struct {
	ID   string `path:"id" doc:"Book ID"`
	Body service.UpdateBookRequest
}

// DeleteBookInput contains parameters for deleting one book.
type DeleteBookInput struct {
	ID string `path:"id" doc:"Book ID"`
}

// === Handlers ===

func (s *Server) handleCreateBook(ctx context.Context, input *CreateBookInput) (*BookOutput, error) {
	identity, err := GetIdentity(ctx)
	if err != nil {
		return nil, err
	}

	book, err := s.bookService.Create(ctx, identity.ID, input.Body)
	if err != nil {
		return nil, err
	}

	return &BookOutput{Body: BookBody{
		Message: "Book created",
		Data:    newBookResponse(book),
	}}, nil
}

func (s *Server) handleListBooks(ctx context.Context, input *ListBooksInput) (*ListBooksOutput, error) {
	identity, err := GetIdentity(ctx)
	if err != nil {
		return nil, err
	}

	result, err := s.bookService.List(ctx, identity.ID, service.ListBooksParams{
		Page:   input.Page,
		Limit:  input.Limit,
		Status: input.Status,
	})
	if err != nil {
		return nil, err
	}

	books := make([]BookResponse, len(result.Data))
	for i, b := range result.Data {
		books[i] = newBookResponse(b)
	}

	return &ListBooksOutput{Body: ListBooksBody{
		Message:    "Books retrieved",
		Data:       books,
		Total:      result.Total,
		Page:       result.Page,
		Limit:      result.Limit,
		TotalPages: result.TotalPages,
	}}, nil
}

func (s *Server) handleGetBook(ctx context.Context, input *GetBookInput) (*BookOutput, error) {
	identity, err := GetIdentity(ctx)
	if err != nil {
		return nil, err
	}

	book, err := s.bookService.GetOne(ctx, input.ID, identity.ID)
	if err != nil {
		return nil, err
	}

	return &BookOutput{Body: BookBody{
		Message: "Book retrieved",
		Data:    newBookResponse(book),
	}}, nil
}

func (s *Server) handleUpdateBook(ctx context.Context, input *UpdateBookInput) (*BookOutput, error) {
	identity, err := GetIdentity(ctx)
	if err != nil {
		return nil, err
	}

	book, err := s.bookService.Update(ctx, input.ID, identity.ID, input.Body)
	if err != nil {
		return nil, err
	}

	return &BookOutput{Body: BookBody{
		Message: "Book updated",
		Data:    newBookResponse(book),
	}}, nil
}

func (s *Server) handleDeleteBook(ctx context.Context, input *DeleteBookInput) (*MessageOutput, error) {
	identity, err := GetIdentity(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.bookService.Remove(ctx, input.ID, identity.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Book deleted"}}, nil
}
