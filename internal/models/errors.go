package models

import (
	"errors"
)

var (
	ErrStorage  = errors.New("an error occurred on the server during your request")
	ErrNotFound = errors.New("there is no")
)
