package entity

import "errors"

var (
	ErrProspectNotFound = errors.New("prospect not found")
	ErrTemplateNotFound = errors.New("template not found")
	ErrEmailAlreadyExists = errors.New("a prospect with this email already exists for this user")
)
