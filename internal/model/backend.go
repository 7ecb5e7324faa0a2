package model

import (
	"errors"
	"strings"
)

// Backend names a Task Service variant.
type Backend string

const (
	// BackendLocal writes tasks with fixed defaults.
	BackendLocal Backend = "local"
	// BackendClassifying asks the classification API for priority and category.
	BackendClassifying Backend = "classifying"
)

var ErrUnknownBackend = errors.New("unknown backend")

// ParseBackend accepts the canonical names plus the "mock"/"real" aliases.
func ParseBackend(s string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "local", "mock":
		return BackendLocal, nil
	case "classifying", "real", "ai":
		return BackendClassifying, nil
	}
	return "", ErrUnknownBackend
}

// BackendRequest represents a backend switch request and response.
type BackendRequest struct {
	Backend string `json:"backend"`
}
