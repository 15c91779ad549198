package helper

import "fmt"

// NewError wraps an error with the operation it occurred in.
// The wrapped error stays available for errors.Is/errors.As.
func NewError(operation string, err error) error {
	return fmt.Errorf("error in %v: %w", operation, err)
}
