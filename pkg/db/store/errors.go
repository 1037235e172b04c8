package store

import "errors"

// Validation failures are typed so callers can branch with errors.Is. Every
// store operation returns one of these or wraps the underlying driver error.
var (
	// Taxonomy
	ErrDuplicateName        = errors.New("property name already exists")
	ErrInvalidParent        = errors.New("parent property is unknown or would close a cycle")
	ErrUnknownProperty      = errors.New("property not found")
	ErrDuplicateValue       = errors.New("value already exists for this property")
	ErrUnknownPropertyValue = errors.New("property value not found")

	// Tagging
	ErrDuplicateTag      = errors.New("video already carries this property value")
	ErrUnknownTag        = errors.New("tag not found")
	ErrInvalidConfidence = errors.New("confidence score outside [0.0, 1.0]")

	// Catalog
	ErrDuplicatePath      = errors.New("video path already cataloged")
	ErrUnknownVideo       = errors.New("video not found")
	ErrUnknownDescription = errors.New("description not found")

	// Embeddings
	ErrDimensionMismatch = errors.New("embedding vector has wrong dimension")
	ErrUnknownEmbedding  = errors.New("embedding not found")

	// Collections
	ErrUnknownCollection   = errors.New("collection not found")
	ErrDuplicateShare      = errors.New("collection already shared with this user")
	ErrDuplicateMembership = errors.New("video already part of this collection")
	ErrUnknownMembership   = errors.New("video not part of this collection")

	// Users
	ErrDuplicateUsername  = errors.New("username already taken")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrUnknownUser        = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
