package repository

import "errors"

var (
	// ErrImageNotInSet is returned when an operation requires an image to
	// already be a member of the target relation set and it is not.
	ErrImageNotInSet = errors.New("image is not in set")

	// ErrDefaultChat is returned when attempting to delete a video's
	// default chat thread.
	ErrDefaultChat = errors.New("default chat cannot be deleted")
)
