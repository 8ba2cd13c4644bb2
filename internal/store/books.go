package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/shelfmarkapp/shelfmark-server/internal/domain"
)

const (
	bookPrefix        = "book:"
	bookByOwnerPrefix = "idx:books:owner:" // idx:books:owner:<ownerID>:<bookID> -> bookID
)

// bookOwnerKey builds the owner index key for one book. The index is
// non-unique: every book of an owner gets its own key under the owner's
// segment, so listing is a prefix scan.
func bookOwnerKey(ownerID, bookID string) []byte {
	return []byte(bookByOwnerPrefix + ownerID + ":" + bookID)
}

// CreateBook stores a new book and its owner index entry.
func (s *Store) CreateBook(_ context.Context, book *domain.Book) error {
	key := []byte(bookPrefix + book.ID)

	data, err := json.Marshal(book)
	if err != nil {
		return fmt.Errorf("marshal book: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); err == nil {
			return ErrAlreadyExists
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("check book exists: %w", err)
		}

		if err := txn.Set(key, data); err != nil {
			return err
		}
		return txn.Set(bookOwnerKey(book.OwnerID, book.ID), []byte(book.ID))
	})
}

// GetBook retrieves a book by ID.
func (s *Store) GetBook(_ context.Context, id string) (*domain.Book, error) {
	key := []byte(bookPrefix + id)

	var book domain.Book
	if err := s.get(key, &book); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, fmt.Errorf("get book: %w", err)
	}
	return &book, nil
}

// UpdateBook overwrites an existing book. The owner never changes, so
// the owner index entry stays as is.
func (s *Store) UpdateBook(_ context.Context, book *domain.Book) error {
	key := []byte(bookPrefix + book.ID)

	data, err := json.Marshal(book)
	if err != nil {
		return fmt.Errorf("marshal book: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); errors.Is(err, badger.ErrKeyNotFound) {
			return ErrBookNotFound
		} else if err != nil {
			return fmt.Errorf("check book exists: %w", err)
		}
		return txn.Set(key, data)
	})
}

// DeleteBook removes a book and its owner index entry.
func (s *Store) DeleteBook(_ context.Context, id string) error {
	key := []byte(bookPrefix + id)

	return s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrBookNotFound
		}
		if err != nil {
			return fmt.Errorf("get book: %w", err)
		}

		var book domain.Book
		err = item.Value(func(val []byte) error {
			return json.Unmarshal(val, &book)
		})
		if err != nil {
			return fmt.Errorf("unmarshal book: %w", err)
		}

		if err := txn.Delete(bookOwnerKey(book.OwnerID, book.ID)); err != nil {
			return err
		}
		return txn.Delete(key)
	})
}

// ListBooksByOwner returns all of one owner's books, optionally filtered
// by status, sorted most-recently-updated first.
func (s *Store) ListBooksByOwner(_ context.Context, ownerID string, status domain.BookStatus) ([]*domain.Book, error) {
	prefix := []byte(bookByOwnerPrefix + ownerID + ":")

	// Collect IDs from the index first, then resolve the books. Keeps
	// the iterator cheap since index values are tiny.
	var ids []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := string(it.Item().Key())
			ids = append(ids, strings.TrimPrefix(key, string(prefix)))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan owner index: %w", err)
	}

	books := make([]*domain.Book, 0, len(ids))
	err = s.db.View(func(txn *badger.Txn) error {
		for _, id := range ids {
			item, err := txn.Get([]byte(bookPrefix + id))
			if errors.Is(err, badger.ErrKeyNotFound) {
				// Dangling index entry. Skip it.
				continue
			}
			if err != nil {
				return fmt.Errorf("get book %s: %w", id, err)
			}

			var book domain.Book
			err = item.Value(func(val []byte) error {
				return json.Unmarshal(val, &book)
			})
			if err != nil {
				return fmt.Errorf("unmarshal book %s: %w", id, err)
			}

			if status != "" && book.Status != status {
				continue
			}
			books = append(books, &book)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(books, func(a, b *domain.Book) int {
		if c := b.UpdatedAt.Compare(a.UpdatedAt); c != 0 {
			return c
		}
		return strings.Compare(b.ID, a.ID)
	})

	return books, nil
}
