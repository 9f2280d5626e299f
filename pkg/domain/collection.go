package domain

import (
	"errors"
	"fmt"
)

// Collection error kinds. EntityError unwraps to one of these.
var (
	ErrDuplicateEntity = errors.New("duplicate entity")
	ErrEntityNotFound  = errors.New("entity not found")
)

// EntityError reports a collection constraint failure for one key.
type EntityError struct {
	Kind   error
	Entity EntityType
	Key    string
}

func (e *EntityError) Error() string {
	switch e.Kind {
	case ErrDuplicateEntity:
		return fmt.Sprintf("%s %q already exists", e.Entity, e.Key)
	case ErrEntityNotFound:
		return fmt.Sprintf("%s %q not found", e.Entity, e.Key)
	default:
		return fmt.Sprintf("%s %q: %v", e.Entity, e.Key, e.Kind)
	}
}

func (e *EntityError) Unwrap() error { return e.Kind }

// UniqueList is an insertion-ordered list whose elements are unique by key.
// Stored values are never modified in place; Set swaps one value for another.
type UniqueList[K comparable, T any] struct {
	entity EntityType
	key    func(T) K
	clone  func(T) T
	items  []T
}

// NewUniqueList builds an empty list. clone deep-copies an element and may be
// nil for plain value types.
func NewUniqueList[K comparable, T any](entity EntityType, key func(T) K, clone func(T) T) *UniqueList[K, T] {
	if clone == nil {
		clone = func(v T) T { return v }
	}
	return &UniqueList[K, T]{entity: entity, key: key, clone: clone}
}

func (l *UniqueList[K, T]) indexOf(k K) int {
	for i, item := range l.items {
		if l.key(item) == k {
			return i
		}
	}
	return -1
}

func (l *UniqueList[K, T]) errorFor(kind error, k K) error {
	return &EntityError{Kind: kind, Entity: l.entity, Key: fmt.Sprint(k)}
}

// Len returns the number of elements.
func (l *UniqueList[K, T]) Len() int { return len(l.items) }

// Contains reports whether an element with the same key as v exists.
func (l *UniqueList[K, T]) Contains(v T) bool { return l.indexOf(l.key(v)) >= 0 }

// Get returns the element stored under k.
func (l *UniqueList[K, T]) Get(k K) (T, bool) {
	if i := l.indexOf(k); i >= 0 {
		return l.clone(l.items[i]), true
	}
	var zero T
	return zero, false
}

// Add appends v, failing with ErrDuplicateEntity on a key collision.
func (l *UniqueList[K, T]) Add(v T) error {
	k := l.key(v)
	if l.indexOf(k) >= 0 {
		return l.errorFor(ErrDuplicateEntity, k)
	}
	l.items = append(l.items, l.clone(v))
	return nil
}

// Remove deletes the element keyed like v, failing with ErrEntityNotFound.
func (l *UniqueList[K, T]) Remove(v T) error {
	k := l.key(v)
	i := l.indexOf(k)
	if i < 0 {
		return l.errorFor(ErrEntityNotFound, k)
	}
	l.items = append(l.items[:i:i], l.items[i+1:]...)
	return nil
}

// Set replaces target with replacement at the same position. It fails with
// ErrEntityNotFound when target is absent and ErrDuplicateEntity when
// replacement collides with a different element.
func (l *UniqueList[K, T]) Set(target, replacement T) error {
	tk := l.key(target)
	i := l.indexOf(tk)
	if i < 0 {
		return l.errorFor(ErrEntityNotFound, tk)
	}
	rk := l.key(replacement)
	if rk != tk && l.indexOf(rk) >= 0 {
		return l.errorFor(ErrDuplicateEntity, rk)
	}
	l.items[i] = l.clone(replacement)
	return nil
}

// Items returns a fresh copy of the elements in insertion order.
func (l *UniqueList[K, T]) Items() []T {
	out := make([]T, len(l.items))
	for i, item := range l.items {
		out[i] = l.clone(item)
	}
	return out
}

// Filter returns the elements matching pred in insertion order. A nil
// predicate matches everything.
func (l *UniqueList[K, T]) Filter(pred func(T) bool) []T {
	out := make([]T, 0, len(l.items))
	for _, item := range l.items {
		if pred == nil || pred(item) {
			out = append(out, l.clone(item))
		}
	}
	return out
}

// Replace swaps the whole content, rejecting input with duplicate keys.
func (l *UniqueList[K, T]) Replace(items []T) error {
	next := NewUniqueList(l.entity, l.key, l.clone)
	for _, item := range items {
		if err := next.Add(item); err != nil {
			return err
		}
	}
	l.items = next.items
	return nil
}

// Clone returns an independent copy of the list.
func (l *UniqueList[K, T]) Clone() *UniqueList[K, T] {
	return &UniqueList[K, T]{entity: l.entity, key: l.key, clone: l.clone, items: l.Items()}
}

// Equal compares both lists element-wise in order using eq.
func (l *UniqueList[K, T]) Equal(other *UniqueList[K, T], eq func(a, b T) bool) bool {
	if len(l.items) != len(other.items) {
		return false
	}
	for i := range l.items {
		if !eq(l.items[i], other.items[i]) {
			return false
		}
	}
	return true
}
