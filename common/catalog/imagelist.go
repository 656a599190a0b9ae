package catalog

import (
	"errors"
	"slices"
)

// ErrNotPermutation is returned by Reorder when the new sequence is not a
// rearrangement of the current one.
var ErrNotPermutation = errors.New("reorder payload is not a permutation of the current list")

// ImageList is an ordered sequence of image references. The first entry is
// the primary image. Every operation returns a new list; a list is never
// modified after construction.
type ImageList struct {
	items []string
}

// NewImageList copies items into a new list
func NewImageList(items []string) ImageList {
	return ImageList{items: slices.Clone(items)}
}

// Items returns a copy of the references in order
func (l ImageList) Items() []string {
	out := slices.Clone(l.items)
	if out == nil {
		out = []string{}
	}
	return out
}

// Len returns the number of images
func (l ImageList) Len() int {
	return len(l.items)
}

// Primary returns the first reference, or "" for an empty list
func (l ImageList) Primary() string {
	if len(l.items) == 0 {
		return ""
	}
	return l.items[0]
}

// Equal reports whether both lists hold the same references in order
func (l ImageList) Equal(other ImageList) bool {
	return slices.Equal(l.items, other.items)
}

// At returns the reference at i and whether i was in range
func (l ImageList) At(i int) (string, bool) {
	if i < 0 || i >= len(l.items) {
		return "", false
	}
	return l.items[i], true
}

// Remove drops the entry at i. An index outside the list (a stale client
// snapshot) is a no-op.
func (l ImageList) Remove(i int) ImageList {
	if i < 0 || i >= len(l.items) {
		return l
	}
	out := make([]string, 0, len(l.items)-1)
	out = append(out, l.items[:i]...)
	out = append(out, l.items[i+1:]...)
	return ImageList{items: out}
}

// MoveUp swaps the entry at i with its predecessor. No-op at index 0 or out
// of range.
func (l ImageList) MoveUp(i int) ImageList {
	if i <= 0 || i >= len(l.items) {
		return l
	}
	return l.swap(i-1, i)
}

// MoveDown swaps the entry at i with its successor. No-op at the last index
// or out of range.
func (l ImageList) MoveDown(i int) ImageList {
	if i < 0 || i >= len(l.items)-1 {
		return l
	}
	return l.swap(i, i+1)
}

func (l ImageList) swap(i, j int) ImageList {
	out := slices.Clone(l.items)
	out[i], out[j] = out[j], out[i]
	return ImageList{items: out}
}

// Reorder replaces the order with seq, which must hold exactly the same
// references (same multiset). Otherwise the receiver is returned unchanged
// with ErrNotPermutation.
func (l ImageList) Reorder(seq []string) (ImageList, error) {
	if !isPermutation(l.items, seq) {
		return l, ErrNotPermutation
	}
	return NewImageList(seq), nil
}

func isPermutation(current, seq []string) bool {
	if len(current) != len(seq) {
		return false
	}
	counts := make(map[string]int, len(current))
	for _, s := range current {
		counts[s]++
	}
	for _, s := range seq {
		counts[s]--
		if counts[s] < 0 {
			return false
		}
	}
	return true
}
