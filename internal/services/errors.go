package services

import (
	"errors"
	"fmt"
)

// Sentinel errors carry the exact user-facing message; handlers return
// them verbatim. Login failures for unknown email and wrong password
// share one value so responses cannot be used to enumerate accounts.
var (
	ErrEmailTaken         = errors.New("Email already registered")
	ErrInvalidCredentials = errors.New("Invalid credentials")
	ErrAccountDeactivated = errors.New("Account is deactivated. Contact admin.")
	ErrUserNotFound       = errors.New("User not found")
)

// PermissionError signals a capability check failure on an admin route.
type PermissionError struct {
	UserID   string
	Resource string
	Action   string
	Reason   string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: user %s cannot %s %s (%s)", e.UserID, e.Action, e.Resource, e.Reason)
}

func NewPermissionError(userID, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:   userID,
		Resource: resource,
		Action:   action,
		Reason:   reason,
	}
}
