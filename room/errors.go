package room

import (
	"errors"
	"fmt"
)

var (
	ErrNoRoom         = errors.New("room: no room loaded")
	ErrNoExit         = errors.New("room: no exit in that direction")
	ErrNotCollectible = errors.New("room: entity is not an active powerup")
	ErrMalformed      = errors.New("room: malformed resource")
)

// ResourceError reports a room, manifest or catalog resource that is missing
// or malformed. State loaded before the failing call is left untouched.
type ResourceError struct {
	Resource string
	Err      error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("room: resource %s: %v", e.Resource, e.Err)
}

func (e *ResourceError) Unwrap() error {
	return e.Err
}
