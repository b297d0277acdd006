package repository

import "errors"

// ErrNotFound is the repository-level sentinel returned when a lookup for a
// single document finds nothing. The service layer translates it into the
// domain-level apperrors.ErrNotFound, keeping business logic decoupled from
// the storage backend's own error values (fs.ErrNotExist, sql.ErrNoRows).
var ErrNotFound = errors.New("repository: not found")
