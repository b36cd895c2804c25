package api

import "github.com/labstack/echo/v4"

// Stable machine-readable failure codes. The token_expired / invalid_token
// split is load-bearing: it is the only signal the client guard uses to
// pick silent refresh over forced logout.
const (
	CodeValidation          = "validation"
	CodeUserExists          = "user_exists"
	CodeInvalidCredentials  = "invalid_credentials"
	CodeNoToken             = "no_token"
	CodeTokenExpired        = "token_expired"
	CodeInvalidToken        = "invalid_token"
	CodeNoRefreshToken      = "no_refresh_token"
	CodeRefreshTokenExpired = "refresh_token_expired"
	CodeInvalidRefreshToken = "invalid_refresh_token"
	CodeForbidden           = "forbidden"
	CodeNotFound            = "not_found"
	CodeInvalidSignature    = "invalid_signature"
	CodeInternal            = "internal"
)

type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func JSON(c echo.Context, status int, code, message string) error {
	return c.JSON(status, Error{Code: code, Message: message})
}
