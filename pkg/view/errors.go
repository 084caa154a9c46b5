package view

import "errors"

var (
	// ErrInvalidArgument reports caller mistakes such as scalar render params
	// or empty template names. It is returned before any engine work happens.
	ErrInvalidArgument = errors.New("view: invalid argument")
	// ErrTemplateNotFound is wrapped by engines when no registered path holds
	// the requested template.
	ErrTemplateNotFound = errors.New("view: template not found")
)
