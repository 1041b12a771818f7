package application

import "errors"

var (
	// ErrAuthenticationFailed covers both an unknown email and a wrong
	// password so callers cannot tell them apart.
	ErrAuthenticationFailed = errors.New("authentication failed")
	// ErrInvalidOrExpiredConfirmation is returned for any confirmation code
	// that does not verify as a live confirmation token.
	ErrInvalidOrExpiredConfirmation = errors.New("invalid or expired confirmation code")
	ErrForbidden                    = errors.New("forbidden")
	// ErrReconciliationFailed means the invite conversion could not commit;
	// the account was not created.
	ErrReconciliationFailed = errors.New("invite reconciliation failed")
	ErrConflict             = errors.New("conflict")
	ErrUserNotFound         = errors.New("user not found")
	ErrProjectNotFound      = errors.New("project not found")
	ErrInvalidProjectName   = errors.New("project name must contain at least one letter or digit")
	ErrInvalidRole          = errors.New("invalid role")
	ErrInvalidPassword      = errors.New("invalid password")
	ErrStorageUnavailable   = errors.New("storage not configured")
	ErrMailDisabled         = errors.New("mail sending disabled")
)
