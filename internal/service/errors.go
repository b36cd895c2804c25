package service

import "errors"

var (
	ErrValidation          = errors.New("validation failed")
	ErrUserExists          = errors.New("user already exists")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrNoToken             = errors.New("no token")
	ErrTokenExpired        = errors.New("access token expired")
	ErrInvalidToken        = errors.New("invalid access token")
	ErrNoRefreshToken      = errors.New("no refresh token")
	ErrRefreshExpired      = errors.New("refresh token expired")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrNotFound            = errors.New("user not found")
)
