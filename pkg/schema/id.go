package schema

import (
	"fmt"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// NewOrderID generates a new order ID in format ORD-{unix}-{nanoid(8)}.
// The timestamp prefix keeps IDs roughly sortable by placement time; the
// nanoid suffix avoids collision within a process.
func NewOrderID() (string, error) {
	id, err := gonanoid.New(8)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("ORD-%d-%s", time.Now().Unix(), id), nil
}

// NewSessionID generates a new session ID in format SES-{nanoid(12)}.
func NewSessionID() (string, error) {
	id, err := gonanoid.New(12)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("SES-%s", id), nil
}
