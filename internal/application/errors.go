package application

import "errors"

var (
	// ErrInvalidTopicName is returned when a topic name is empty
	ErrInvalidTopicName = errors.New("topic name is required")

	// ErrInvalidUsername is returned when a username is empty
	ErrInvalidUsername = errors.New("username is required")

	// ErrNoPlacementServer is returned when the configuration lists no placement address
	ErrNoPlacementServer = errors.New("no placement server configured")
)
