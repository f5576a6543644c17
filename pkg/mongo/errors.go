package mongo

import "errors"

var (
	ErrNotFound       = errors.New("document not found")
	ErrDuplicateSlug  = errors.New("slug already exists")
	ErrDuplicateEmail = errors.New("email already exists")
	// ErrInvalidParent rejects category parents that are missing or are
	// themselves subcategories (the tree is capped at two levels).
	ErrInvalidParent = errors.New("invalid parent category")
	// ErrBadTransition rejects an illegal order status change.
	ErrBadTransition = errors.New("illegal order status transition")
)
