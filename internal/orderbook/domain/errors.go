package domain

import "errors"

// ErrInvalidNumber is returned when a price or amount fails the
// FinitePositiveF64 invariant (non-finite, or negatively signed).
var ErrInvalidNumber = errors.New("invalid number")

// ErrUnsorted is returned when an InputUpdate is constructed from asks or
// bids that are not sorted best-first by the relevant comparator.
var ErrUnsorted = errors.New("levels are not sorted")

// ErrTooManyLevels is returned when more than NewInputUpdate's maxLevels
// entries are supplied for one side of an InputUpdate.
var ErrTooManyLevels = errors.New("too many levels")
