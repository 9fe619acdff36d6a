package typeid

import (
	"fmt"

	"go.jetify.com/typeid/v2"
)

const (
	PrefixWire      = "wire"
	PrefixRectangle = "rect"
	PrefixTextBox   = "text"
	PrefixComponent = "comp"
	PrefixSession   = "sess"
)

func New(prefix string) string {
	id := typeid.MustGenerate(prefix)
	return id.String()
}

func NewWireID() string      { return New(PrefixWire) }
func NewRectangleID() string { return New(PrefixRectangle) }
func NewTextBoxID() string   { return New(PrefixTextBox) }
func NewComponentID() string { return New(PrefixComponent) }
func NewSessionID() string   { return New(PrefixSession) }

// Prefix returns the type prefix of id, or "" if id is not a typeid.
func Prefix(id string) string {
	parsed, err := typeid.Parse(id)
	if err != nil {
		return ""
	}
	return parsed.Prefix()
}

func Validate(id, expectedPrefix string) error {
	parsed, err := typeid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid typeid %q: %w", id, err)
	}
	if parsed.Prefix() != expectedPrefix {
		return fmt.Errorf("expected prefix %q but got %q in id %q", expectedPrefix, parsed.Prefix(), id)
	}
	return nil
}
