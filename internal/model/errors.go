package model

import "errors"

var (
	// ErrInvalidContainer is returned when a container has non-positive
	// dimensions or a negative weight limit.
	ErrInvalidContainer = errors.New("invalid container")

	// ErrInvalidItem is returned when an item has non-positive dimensions,
	// a negative weight, a non-positive quantity, or cannot fit the
	// container in its only allowed orientation.
	ErrInvalidItem = errors.New("invalid item")

	// ErrInvalidSettings is returned for a non-positive grid size or a
	// support threshold outside (0, 1].
	ErrInvalidSettings = errors.New("invalid pack settings")

	// ErrInvalidShape is returned for ragged or empty voxel masks.
	ErrInvalidShape = errors.New("invalid shape")
)
