package app_errors

import "errors"

var (
	// 寫入前的本地檢查
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrEmailNotVerified       = errors.New("email not verified")
	ErrForbidden              = errors.New("forbidden")
	ErrInvalidDateRange       = errors.New("end datetime is before start datetime")

	ErrEventNotFound = errors.New("event not found")
	ErrUserNotFound  = errors.New("user not found")
	ErrEmailTaken    = errors.New("email already registered")
	ErrBadCredential = errors.New("invalid email or password")
	ErrBadCode       = errors.New("invalid verification code")

	// 後端授權層拒絕寫入(與本地 ErrForbidden 不同)
	ErrPermissionDenied = errors.New("backend rejected write: permission denied")

	ErrImageUploadFailed = errors.New("image upload failed")
	ErrInvalidInput      = errors.New("invalid input")
)
