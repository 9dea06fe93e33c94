package model

import "github.com/m-mizutani/goerr/v2"

// Validation errors
var (
	ErrValidation = goerr.New("validation failed")
)

// Context keys for error values
const (
	FieldKey      = "field"
	FieldTagKey   = "tag"
	FieldParamKey = "param"
)
