package fakesaleor

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// MaxPageSize bounds first and last.
const MaxPageSize = 100

// Cursor is an opaque position in a connection: the item's index at the time
// the page was served and its id.
type Cursor struct {
	Index int
	ID    string
}

// Encode serializes the cursor. Format: base64("sk:{index}:id:{id}").
func (c Cursor) Encode() string {
	raw := fmt.Sprintf("sk:%d:id:%s", c.Index, c.ID)
	return base64.StdEncoding.EncodeToString([]byte(raw))
}

// DecodeCursor parses an encoded cursor.
func DecodeCursor(encoded string) (Cursor, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid cursor encoding: %w", err)
	}
	raw, ok := strings.CutPrefix(string(data), "sk:")
	if !ok {
		return Cursor{}, errors.New("invalid cursor format: missing sk prefix")
	}
	index, id, ok := strings.Cut(raw, ":id:")
	if !ok {
		return Cursor{}, errors.New("invalid cursor format: missing id segment")
	}
	n, err := strconv.Atoi(index)
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid cursor key: %w", err)
	}
	return Cursor{Index: n, ID: id}, nil
}

// PageArgs are the relay pagination arguments of a connection field.
type PageArgs struct {
	First  *int32
	After  *string
	Last   *int32
	Before *string
}

// Page is one window of a connection.
type Page[T any] struct {
	Items           []T
	Cursors         []string
	HasPreviousPage bool
	HasNextPage     bool
	Total           int
}

// Paginate cuts the window args selects out of items. after and before
// narrow the range first, then first keeps its head or last its tail.
// Supplying both first and last is rejected.
func Paginate[T any](items []T, idOf func(T) string, args PageArgs) (Page[T], error) {
	if args.First != nil && args.Last != nil {
		return Page[T]{}, errors.New("providing both first and last is not supported")
	}
	for name, n := range map[string]*int32{"first": args.First, "last": args.Last} {
		if n == nil {
			continue
		}
		if *n < 0 {
			return Page[T]{}, fmt.Errorf("argument %s must be non-negative, got %d", name, *n)
		}
		if *n > MaxPageSize {
			return Page[T]{}, fmt.Errorf("argument %s cannot exceed %d, got %d", name, MaxPageSize, *n)
		}
	}

	start, end := 0, len(items)
	if args.After != nil {
		i, err := locate(items, idOf, *args.After)
		if err != nil {
			return Page[T]{}, fmt.Errorf("after: %w", err)
		}
		start = i + 1
	}
	if args.Before != nil {
		i, err := locate(items, idOf, *args.Before)
		if err != nil {
			return Page[T]{}, fmt.Errorf("before: %w", err)
		}
		end = i
	}
	if end < start {
		end = start
	}
	if args.First != nil && end-start > int(*args.First) {
		end = start + int(*args.First)
	}
	if args.Last != nil && end-start > int(*args.Last) {
		start = end - int(*args.Last)
	}

	page := Page[T]{
		Items:           items[start:end],
		Cursors:         make([]string, 0, end-start),
		HasPreviousPage: start > 0,
		HasNextPage:     end < len(items),
		Total:           len(items),
	}
	for i := start; i < end; i++ {
		page.Cursors = append(page.Cursors, Cursor{Index: i, ID: idOf(items[i])}.Encode())
	}
	return page, nil
}

// locate resolves a cursor to the current index of its item. The encoded
// index is tried first, then the id is searched for.
func locate[T any](items []T, idOf func(T) string, encoded string) (int, error) {
	c, err := DecodeCursor(encoded)
	if err != nil {
		return 0, err
	}
	if c.Index >= 0 && c.Index < len(items) && idOf(items[c.Index]) == c.ID {
		return c.Index, nil
	}
	for i, item := range items {
		if idOf(item) == c.ID {
			return i, nil
		}
	}
	return 0, fmt.Errorf("cursor %q points to no item", encoded)
}
