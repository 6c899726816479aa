// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"errors"
	"fmt"
)

// ErrNoRelationship is returned when a resource lacks a required relationship,
// such as a cover without its manga.
var ErrNoRelationship = errors.New("catalog: missing relationship")

// StatusError is returned for non-2xx catalog responses.
type StatusError struct {
	Endpoint   string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("catalog: %s returned status %d", e.Endpoint, e.StatusCode)
}

// IsNotFound reports whether err is a 404 from the catalog.
func IsNotFound(err error) bool {
	var statusError *StatusError
	return errors.As(err, &statusError) && statusError.StatusCode == 404
}
