package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserAlreadyExists  = errors.New("email or username already exists")
	ErrInvalidRole        = errors.New("invalid role")
)
