package cache

import (
	"fmt"
	"slices"
	"strings"
)

const (
	itemPrefix = "books:"
	listPrefix = "books:list:user:"
)

// ItemKey returns the cache key for a single book.
func ItemKey(bookID string) string {
	return itemPrefix + bookID
}

// OwnerListPrefix returns the key prefix shared by all cached list pages
// belonging to one owner. Deleting everything under it invalidates the
// owner's lists regardless of page, limit, filter or sort.
func OwnerListPrefix(ownerID string) string {
	return listPrefix + ownerID + ":"
}

// ListKey builds the cache key for one page of an owner's book list.
// Filter and sort are serialized with their keys in alphabetical order
// so that equivalent queries always map to the same key.
func ListKey(ownerID string, page, limit int, filter, sort map[string]string) string {
	return fmt.Sprintf("%s%s:%d:%d:%s:%s",
		listPrefix, ownerID, page, limit, encodeParams(filter), encodeParams(sort))
}

// encodeParams renders a small string map as deterministic JSON.
// Map iteration order is not stable, so keys are sorted explicitly.
func encodeParams(params map[string]string) string {
	if len(params) == 0 {
		return "{}"
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var b strings.Builder
	b.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%q:%q", k, params[k])
	}
	b.WriteByte('}')
	return b.String()
}
