package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to v4 if v7 fails
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	RequestID ID
	ExportID  ID
)

// String conversions for domain IDs
func (id RequestID) String() string { return ID(id).String() }
func (id ExportID) String() string  { return ID(id).String() }

// NewRequestID creates a fresh identifier for one tool or API request
func NewRequestID() RequestID { return RequestID(NewID()) }

// NewExportID creates a fresh identifier for a workbook export
func NewExportID() ExportID { return ExportID(NewID()) }

// ParseRequestID parses a string into RequestID
func ParseRequestID(s string) (RequestID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("request ID cannot be empty")
	}
	return RequestID(s), nil
}
