package service

import "errors"

// 会话与认证
var (
	ErrInvalidToken       = errors.New("invalid session token")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidPassword    = errors.New("invalid current password")
	ErrWeakPassword       = errors.New("password does not meet policy")
	ErrUsernameInvalid    = errors.New("invalid username")
	ErrUsernameTaken      = errors.New("username already taken")
)

// 通用
var (
	ErrNotFound    = errors.New("not found")
	ErrValidation  = errors.New("validation failed")
	ErrPersistence = errors.New("persistence failure")
)

// 上传
var (
	ErrEmptyFile             = errors.New("empty file")
	ErrFileTooLarge          = errors.New("file too large")
	ErrUnsupportedFileType   = errors.New("unsupported file type")
	ErrImageDimensionTooBig  = errors.New("image dimensions too large")
	ErrUnsupportedUploadKind = errors.New("unsupported upload scene")
	ErrInvalidUploadURL      = errors.New("invalid upload url")
)
