package model

import (
	"errors"
	"fmt"
)

// ValidateSettings checks the grid size and support threshold.
func ValidateSettings(s PackSettings) error {
	if s.GridSize <= 0 {
		return fmt.Errorf("%w: grid size must be positive, got %d", ErrInvalidSettings, s.GridSize)
	}
	if s.SupportThreshold <= 0 || s.SupportThreshold > 1 {
		return fmt.Errorf("%w: support threshold must be in (0, 1], got %g", ErrInvalidSettings, s.SupportThreshold)
	}
	return nil
}

// ValidateContainer checks that the container has a usable volume.
func ValidateContainer(c Container) error {
	if c.Width <= 0 || c.Height <= 0 || c.Depth <= 0 {
		return fmt.Errorf("%w: dimensions must be positive, got %gx%gx%g", ErrInvalidContainer, c.Width, c.Height, c.Depth)
	}
	if c.MaxWeight < 0 {
		return fmt.Errorf("%w: max weight must not be negative, got %g", ErrInvalidContainer, c.MaxWeight)
	}
	return nil
}

// ValidateItem checks one backlog entry against the container. Items that
// may not rotate must fit the container as declared.
func ValidateItem(it Item, c Container, gridSize int) error {
	if it.Width <= 0 || it.Height <= 0 || it.Depth <= 0 {
		return fmt.Errorf("%w %q: dimensions must be positive, got %gx%gx%g", ErrInvalidItem, it.Name, it.Width, it.Height, it.Depth)
	}
	if it.Weight < 0 {
		return fmt.Errorf("%w %q: weight must not be negative, got %g", ErrInvalidItem, it.Name, it.Weight)
	}
	if it.Quantity <= 0 {
		return fmt.Errorf("%w %q: quantity must be positive, got %d", ErrInvalidItem, it.Name, it.Quantity)
	}
	if it.Rotatable {
		return nil
	}
	w, h, d := it.Width, it.Height, it.Depth
	if it.Shape != nil {
		dims := it.Shape.Dims()
		g := float64(gridSize)
		w, h, d = float64(dims[0])*g, float64(dims[2])*g, float64(dims[1])*g
	}
	if !c.Fits(w, h, d) {
		return fmt.Errorf("%w %q: %gx%gx%g does not fit the container and the item cannot rotate", ErrInvalidItem, it.Name, w, h, d)
	}
	return nil
}

// Validate checks a whole run and reports every problem found.
func Validate(c Container, items []Item, s PackSettings) error {
	var errs []error
	if err := ValidateSettings(s); err != nil {
		errs = append(errs, err)
	}
	if err := ValidateContainer(c); err != nil {
		errs = append(errs, err)
	}
	for _, it := range items {
		if err := ValidateItem(it, c, s.GridSize); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
