package extract

import (
	"fmt"
	"strconv"
)

// Key identifies a translatable string: the literal and its optional
// context. Localize("x") and Localize("x", "") are different keys.
type Key struct {
	Str    string
	Ctx    string
	HasCtx bool
}

// NewKey builds a key; ctx == nil means no context.
func NewKey(str string, ctx *string) Key {
	if ctx == nil {
		return Key{Str: str}
	}
	return Key{Str: str, Ctx: *ctx, HasCtx: true}
}

// Context returns the context as a pointer, nil when absent.
func (k Key) Context() *string {
	if !k.HasCtx {
		return nil
	}
	ctx := k.Ctx
	return &ctx
}

func (k Key) String() string {
	if k.HasCtx {
		return strconv.Quote(k.Str) + " (" + strconv.Quote(k.Ctx) + ")"
	}
	return strconv.Quote(k.Str)
}

// Location is the first place a key was seen.
type Location struct {
	File string
	Line int
}

func (l Location) String() string {
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// KeySet is an insertion-ordered set of keys.
type KeySet struct {
	keys []Key
	locs map[Key]Location
}

// NewKeySet returns an empty set.
func NewKeySet() *KeySet {
	return &KeySet{locs: make(map[Key]Location)}
}

// Add inserts k. It reports whether k was new; a duplicate keeps its first
// location and position.
func (s *KeySet) Add(k Key, loc Location) bool {
	if _, ok := s.locs[k]; ok {
		return false
	}
	s.locs[k] = loc
	s.keys = append(s.keys, k)
	return true
}

// Has reports whether k is in the set.
func (s *KeySet) Has(k Key) bool {
	_, ok := s.locs[k]
	return ok
}

// Location returns where k was first seen.
func (s *KeySet) Location(k Key) (Location, bool) {
	loc, ok := s.locs[k]
	return loc, ok
}

// Keys returns the keys in first-occurrence order.
func (s *KeySet) Keys() []Key {
	return s.keys
}

// Len returns the number of keys, including ones with an empty string.
func (s *KeySet) Len() int {
	return len(s.keys)
}

// Translatable returns the number of keys with a non-empty string.
func (s *KeySet) Translatable() int {
	n := 0
	for _, k := range s.keys {
		if k.Str != "" {
			n++
		}
	}
	return n
}
