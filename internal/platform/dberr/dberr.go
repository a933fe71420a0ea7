// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr classifies pgx errors for the repositories.
package dberr

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/storefront/internal/platform/apperr"
)

// ErrDuplicate means a unique index rejected the write. Every store returns
// it for a taken email so the service can map it once.
var ErrDuplicate = errors.New("dberr: duplicate key")

func IsUniqueViolation(err error) bool {
	var pgError *pgconn.PgError
	return errors.As(err, &pgError) && pgError.Code == pgerrcode.UniqueViolation
}

/*
Wrap maps a pgx error onto what callers branch on.

pgx.ErrNoRows becomes a 404 naming resource. A unique violation becomes
ErrDuplicate. Anything else is an internal error that keeps err as its cause.
*/
func Wrap(err error, resource string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, pgx.ErrNoRows):
		return apperr.NotFound(resource)
	case IsUniqueViolation(err):
		return ErrDuplicate
	default:
		return apperr.Internal(err)
	}
}
