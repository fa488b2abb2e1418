package extract

import (
	"errors"
	"fmt"
)

// ErrEmptyMarker is wrapped by every MarkerError.
var ErrEmptyMarker = errors.New("empty marker")

// MarkerError reports which marker argument was empty.
type MarkerError struct {
	Name string
}

func (e *MarkerError) Error() string {
	return fmt.Sprintf("extract called with an empty string for %s: "+
		"text between nothing and something is not a meaningful region, "+
		"find the caller that passes an empty delimiter", e.Name)
}

func (e *MarkerError) Unwrap() error { return ErrEmptyMarker }

// PreCheck returns a *MarkerError naming name when marker is empty.
func PreCheck(marker, name string) error {
	if len(marker) == 0 {
		return &MarkerError{Name: name}
	}
	return nil
}
