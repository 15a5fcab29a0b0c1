package broker

import "errors"

var (
	ErrRoomNotFound   = errors.New("room not found")
	ErrRoomFull       = errors.New("room is full")
	ErrInvalidRole    = errors.New("invalid role")
	ErrInvalidMessage = errors.New("invalid message format")
)
