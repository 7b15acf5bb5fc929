package util

import "errors"

var (
	ErrQuizNotFound       = errors.New("quiz not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrQuizNotActive      = errors.New("quiz is not available for play or has expired")
	ErrAlreadyReacted     = errors.New("user already reacted to this quiz")
	ErrAlreadyCompleted   = errors.New("user already completed this quiz")
	ErrInvalidField       = errors.New("invalid field")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUpstreamRejected   = errors.New("trivia api rejected the request")
	ErrRetriesExhausted   = errors.New("trivia api rate limited, retries exhausted")
	ErrGatewayUnavailable = errors.New("trivia api unavailable")
	ErrCancelled          = errors.New("trivia request cancelled")
	ErrUsernameTaken      = errors.New("该用户名已被注册")
	ErrEmailRegistered    = errors.New("该邮箱已被注册")
	ErrPasswordUpdate     = errors.New("password updates are not allowed")
	ErrInvalidResetToken  = errors.New("invalid or expired reset token")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
