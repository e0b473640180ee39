package domain

import "errors"

// ErrMalformedSheet means a generation sheet does not follow the BP layout,
// most often because the "Total World" sentinel row is missing.
var ErrMalformedSheet = errors.New("malformed energy sheet")

// ErrMissingColumn means a required named column is absent from a table.
var ErrMissingColumn = errors.New("missing column")
