package models

import "errors"

// Error kinds for fatal failures. Model-response parse failures are not
// errors at all: each component converts them to its documented default
// value at the boundary.
var (
	ErrConfig        = errors.New("configuration error")
	ErrUpstreamShape = errors.New("structurally invalid upstream payload")
	ErrBrowser       = errors.New("browser navigation failed")
	ErrAsset         = errors.New("image asset failed")
)
