package core

import "errors"

var (
	// ErrInvalidMaterial is returned when a material name is neither "land" nor "water"
	ErrInvalidMaterial = errors.New("invalid material")

	// ErrCellNotFound is returned for a cell id outside the world
	ErrCellNotFound = errors.New("cell not found")

	// ErrInvalidWaterMode is returned for an unknown ocean initialisation policy
	ErrInvalidWaterMode = errors.New("invalid water init mode")
)
