package domain

import "errors"

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrFileNotFound   = errors.New("uploaded file not found")
	ErrObjectNotFound = errors.New("stored object not found")
	ErrNotLinked      = errors.New("no game account linked")
	ErrEmailTaken     = errors.New("email address already in use")
)
