package domain

import "errors"

var (
	// ErrProductNotFound is returned when a product does not exist in the relational store
	ErrProductNotFound = errors.New("product not found")

	// ErrOrderNotFound is returned when an order does not exist
	ErrOrderNotFound = errors.New("order not found")

	// ErrUserNotFound is returned when a user does not exist in the directory
	ErrUserNotFound = errors.New("user not found")

	// ErrDuplicateProduct is returned when inserting a product whose ID already exists
	ErrDuplicateProduct = errors.New("product already exists")

	// ErrSnapshotUnavailable is returned when no usable catalog snapshot exists in the blob store
	ErrSnapshotUnavailable = errors.New("catalog snapshot unavailable")

	// ErrBlobUploadFailed is returned when a snapshot upload does not complete
	ErrBlobUploadFailed = errors.New("blob upload failed")

	// ErrStoreUnavailable is returned when the relational store cannot be reached
	ErrStoreUnavailable = errors.New("relational store unavailable")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")
)
