package object

import "errors"

var (
	ErrObjectNotFound  = errors.New("object not found")
	ErrCorruptObject   = errors.New("corrupt object")
	ErrMalformedTree   = errors.New("malformed tree")
	ErrMalformedCommit = errors.New("malformed commit")
)
