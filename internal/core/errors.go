package core

import "errors"

// Error codes for domain errors.
const (
	ErrCodeBadRequest        = "bad_request"
	ErrCodeUnauthorized      = "unauthorized"
	ErrCodeInvalidName       = "invalid_name"
	ErrCodeNameTaken         = "name_taken"
	ErrCodeAlreadyRegistered = "already_registered"
	ErrCodeInvalidChannel    = "invalid_channel_name"
	ErrCodeChannelExists     = "channel_exists"
	ErrCodeChannelNotFound   = "channel_not_found"
	ErrCodeProfileNotFound   = "profile_not_found"
	ErrCodeInvalidProfile    = "invalid_profile"
	ErrCodeInvalidMedia      = "invalid_media"
	ErrCodeMediaTooLarge     = "media_too_large"
	ErrCodeInternal          = "internal"
)

var (
	ErrInvalidName        = errors.New("name must be 2 to 32 characters")
	ErrNameTaken          = errors.New("username already taken")
	ErrAlreadyRegistered  = errors.New("connection already registered")
	ErrNotRegistered      = errors.New("connection is not registered")
	ErrInvalidChannelName = errors.New("channel name must be 2 to 20 characters of a-z, 0-9 or -")
	ErrChannelExists      = errors.New("channel already exists")
	ErrChannelNotFound    = errors.New("channel not found")
	ErrProfileNotFound    = errors.New("profile not found")
	ErrInvalidProfile     = errors.New("invalid profile")
	ErrUnsupportedMedia   = errors.New("unsupported media type")
	ErrInvalidMedia       = errors.New("invalid media payload")
	ErrMediaTooLarge      = errors.New("media exceeds size limit")
	ErrHubStopped         = errors.New("hub stopped")
)

// CoreError wraps a code and human-readable message.
type CoreError struct {
	Code    string
	Message string
}

func (e *CoreError) Error() string {
	return e.Message
}

func coreError(code, msg string) *CoreError {
	return &CoreError{Code: code, Message: msg}
}

// toCoreError maps a domain error to the caller-facing code.
func toCoreError(err error) *CoreError {
	switch {
	case errors.Is(err, ErrNameTaken):
		return coreError(ErrCodeNameTaken, "Username already taken!")
	case errors.Is(err, ErrInvalidName):
		return coreError(ErrCodeInvalidName, err.Error())
	case errors.Is(err, ErrAlreadyRegistered):
		return coreError(ErrCodeAlreadyRegistered, "already registered")
	case errors.Is(err, ErrNotRegistered):
		return coreError(ErrCodeUnauthorized, "register an identity first")
	case errors.Is(err, ErrInvalidChannelName):
		return coreError(ErrCodeInvalidChannel, ErrInvalidChannelName.Error())
	case errors.Is(err, ErrChannelExists):
		return coreError(ErrCodeChannelExists, "channel already exists")
	case errors.Is(err, ErrChannelNotFound):
		return coreError(ErrCodeChannelNotFound, "channel not found")
	case errors.Is(err, ErrProfileNotFound):
		return coreError(ErrCodeProfileNotFound, "profile not found")
	case errors.Is(err, ErrInvalidProfile):
		return coreError(ErrCodeInvalidProfile, err.Error())
	case errors.Is(err, ErrMediaTooLarge):
		return coreError(ErrCodeMediaTooLarge, err.Error())
	case errors.Is(err, ErrUnsupportedMedia), errors.Is(err, ErrInvalidMedia):
		return coreError(ErrCodeInvalidMedia, err.Error())
	default:
		return coreError(ErrCodeInternal, "internal error")
	}
}
