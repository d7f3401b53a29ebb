package domain

import "errors"

var ErrNotFound = errors.New("not found")
var ErrQuotaExceeded = errors.New("storage quota exceeded")
var ErrInvalidCatalog = errors.New("invalid catalog")
