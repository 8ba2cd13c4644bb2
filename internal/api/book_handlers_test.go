package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createBook posts a book as the given session and returns its ID.
func (ts *testServer) createBook(t *testing.T, accessToken string, body map[string]any) string {
	t.Helper()

	resp := ts.api.Post("/api/v1/books",
		"Cookie: "+accessTokenCookie+"="+accessToken, body)
	require.Equal(t, http.StatusCreated, resp.Code, "create failed: %s", resp.Body.String())

	created := decodeBody[BookBody](t, resp)
	require.NotEmpty(t, created.Data.ID)
	return created.Data.ID
}

func TestCreateBook_Success(t *testing.T) {
	ts := setupTestServer(t)
	access, _ := ts.registerUser(t, "reader@example.com")

	resp := ts.api.Post("/api/v1/books",
		"Cookie: "+accessTokenCookie+"="+access,
		map[string]any{
			"title":  "Dune",
			"author": "Frank Herbert",
			"status": "reading",
			"rating": 4.5,
		})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	body := decodeBody[BookBody](t, resp)
	assert.Equal(t, "Book created", body.Message)
	assert.Equal(t, "Dune", body.Data.Title)
	assert.Equal(t, "reading", body.Data.Status)
	require.NotNil(t, body.Data.Rating)
	assert.Equal(t, 4.5, *body.Data.Rating)
}

func TestCreateBook_DefaultStatus(t *testing.T) {
	ts := setupTestServer(t)
	access, _ := ts.registerUser(t, "reader@example.com")

	resp := ts.api.Post("/api/v1/books",
		"Cookie: "+accessTokenCookie+"="+access,
		map[string]any{"title": "Piranesi", "author": "Susanna Clarke"})
	require.Equal(t, http.StatusCreated, resp.Code)

	body := decodeBody[BookBody](t, resp)
	assert.Equal(t, "wishlist", body.Data.Status)
}

func TestCreateBook_Unauthenticated(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/books", map[string]any{
		"title":  "Dune",
		"author": "Frank Herbert",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestCreateBook_Validation(t *testing.T) {
	ts := setupTestServer(t)
	access, _ := ts.registerUser(t, "reader@example.com")

	resp := ts.api.Post("/api/v1/books",
		"Cookie: "+accessTokenCookie+"="+access,
		map[string]any{"author": "No Title"})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = ts.api.Post("/api/v1/books",
		"Cookie: "+accessTokenCookie+"="+access,
		map[string]any{"title": "T", "author": "A", "rating": 9})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	// The response must name the offending field.
	assert.Contains(t, resp.Body.String(), "rating")
}

func TestListBooks_Pagination(t *testing.T) {
	ts := setupTestServer(t)
	access, _ := ts.registerUser(t, "reader@example.com")

	for _, title := range []string{"Dune", "Piranesi", "Solaris"} {
		ts.createBook(t, access, map[string]any{"title": title, "author": "A"})
	}

	resp := ts.api.Get("/api/v1/books?page=1&limit=2",
		"Cookie: "+accessTokenCookie+"="+access)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	body := decodeBody[ListBooksBody](t, resp)
	assert.Equal(t, 3, body.Total)
	assert.Equal(t, 2, body.TotalPages)
	assert.Len(t, body.Data, 2)

	resp = ts.api.Get("/api/v1/books?page=2&limit=2",
		"Cookie: "+accessTokenCookie+"="+access)
	require.Equal(t, http.StatusOK, resp.Code)

	body = decodeBody[ListBooksBody](t, resp)
	assert.Len(t, body.Data, 1)
}

func TestListBooks_StatusFilter(t *testing.T) {
	ts := setupTestServer(t)
	access, _ := ts.registerUser(t, "reader@example.com")

	ts.createBook(t, access, map[string]any{"title": "A", "author": "X", "status": "reading"})
	ts.createBook(t, access, map[string]any{"title": "B", "author": "X", "status": "completed"})

	resp := ts.api.Get("/api/v1/books?status=reading",
		"Cookie: "+accessTokenCookie+"="+access)
	require.Equal(t, http.StatusOK, resp.Code)

	body := decodeBody[ListBooksBody](t, resp)
	require.Len(t, body.Data, 1)
	assert.Equal(t, "A", body.Data[0].Title)

	// Unknown status values are rejected at the schema.
	resp = ts.api.Get("/api/v1/books?status=abandoned",
		"Cookie: "+accessTokenCookie+"="+access)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), "status")
}

func TestGetBook(t *testing.T) {
	ts := setupTestServer(t)
	access, _ := ts.registerUser(t, "reader@example.com")

	bookID := ts.createBook(t, access, map[string]any{"title": "Dune", "author": "Frank Herbert"})

	resp := ts.api.Get("/api/v1/books/"+bookID,
		"Cookie: "+accessTokenCookie+"="+access)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	body := decodeBody[BookBody](t, resp)
	assert.Equal(t, "Book retrieved", body.Message)
	assert.Equal(t, "Dune", body.Data.Title)
}

func TestGetBook_NotFound(t *testing.T) {
	ts := setupTestServer(t)
	access, _ := ts.registerUser(t, "reader@example.com")

	resp := ts.api.Get("/api/v1/books/book-ghost",
		"Cookie: "+accessTokenCookie+"="+access)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestGetBook_ForbiddenForOtherUser(t *testing.T) {
	ts := setupTestServer(t)

	owner, _ := ts.registerUser(t, "owner@example.com")
	other, _ := ts.registerUser(t, "other@example.com")

	bookID := ts.createBook(t, owner, map[string]any{"title": "Dune", "author": "Frank Herbert"})

	resp := ts.api.Get("/api/v1/books/"+bookID,
		"Cookie: "+accessTokenCookie+"="+other)
	assert.Equal(t, http.StatusForbidden, resp.Code)
}

func TestUpdateBook(t *testing.T) {
	ts := setupTestServer(t)
	access, _ := ts.registerUser(t, "reader@example.com")

	bookID := ts.createBook(t, access, map[string]any{"title": "Dune", "author": "Frank Herbert"})

	resp := ts.api.Patch("/api/v1/books/"+bookID,
		"Cookie: "+accessTokenCookie+"="+access,
		map[string]any{"status": "completed", "rating": 5})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	body := decodeBody[BookBody](t, resp)
	assert.Equal(t, "Book updated", body.Message)
	assert.Equal(t, "completed", body.Data.Status)
	require.NotNil(t, body.Data.Rating)
	assert.Equal(t, 5.0, *body.Data.Rating)
	assert.Equal(t, "Dune", body.Data.Title)
}

func TestUpdateBook_EmptyPatch(t *testing.T) {
	ts := setupTestServer(t)
	access, _ := ts.registerUser(t, "reader@example.com")

	bookID := ts.createBook(t, access, map[string]any{"title": "Dune", "author": "Frank Herbert"})

	resp := ts.api.Patch("/api/v1/books/"+bookID,
		"Cookie: "+accessTokenCookie+"="+access,
		map[string]any{})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), "No fields to update")
}

func TestUpdateBook_Forbidden(t *testing.T) {
	ts := setupTestServer(t)

	owner, _ := ts.registerUser(t, "owner@example.com")
	other, _ := ts.registerUser(t, "other@example.com")

	bookID := ts.createBook(t, owner, map[string]any{"title": "Dune", "author": "Frank Herbert"})

	resp := ts.api.Patch("/api/v1/books/"+bookID,
		"Cookie: "+accessTokenCookie+"="+other,
		map[string]any{"title": "Mine Now"})
	assert.Equal(t, http.StatusForbidden, resp.Code)
}

func TestDeleteBook(t *testing.T) {
	ts := setupTestServer(t)
	access, _ := ts.registerUser(t, "reader@example.com")

	bookID := ts.createBook(t, access, map[string]any{"title": "Dune", "author": "Frank Herbert"})

	resp := ts.api.Delete("/api/v1/books/"+bookID,
		"Cookie: "+accessTokenCookie+"="+access)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = ts.api.Get("/api/v1/books/"+bookID,
		"Cookie: "+accessTokenCookie+"="+access)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestDeleteBook_Forbidden(t *testing.T) {
	ts := setupTestServer(t)

	owner, _ := ts.registerUser(t, "owner@example.com")
	other, _ := ts.registerUser(t, "other@example.com")

	bookID := ts.createBook(t, owner, map[string]any{"title": "Dune", "author": "Frank Herbert"})

	resp := ts.api.Delete("/api/v1/books/"+bookID,
		"Cookie: "+accessTokenCookie+"="+other)
	assert.Equal(t, http.StatusForbidden, resp.Code)

	// Still there for the owner.
	resp = ts.api.Get("/api/v1/books/"+bookID,
		"Cookie: "+accessTokenCookie+"="+owner)
	assert.Equal(t, http.StatusOK, resp.Code)
}
