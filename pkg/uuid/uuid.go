// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package uuid generates account identifiers.

Identifiers are UUIDv7: time-ordered, so new accounts land at the end of the
primary key index and list queries sorted by id follow creation order.
*/
package uuid

import "github.com/google/uuid"

// New generates a new UUIDv7 string.
//
// It panics when the system entropy source fails, which leaves nothing sane
// to do for the caller.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		panic("uuid: failed to generate UUIDv7: " + err.Error())
	}
	return id.String()
}
