package models

import "strings"

// ConnectionLabel is the result of splitting a connection label into a DID and
// a human-readable part. An empty DID means none was embedded.
type ConnectionLabel struct {
	Label string
	DID   string
}

// HasDID reports whether a DID was extracted from the label.
func (l ConnectionLabel) HasDID() bool {
	return l.DID != ""
}

// SplitLabel extracts the DID and label components from a connection label of
// the form method:namespace:identifier:displayLabel, e.g. did:sov:xxx:MyLabel.
// Any other shape is treated as a plain display label. Structural validity of
// the DID is not checked here; a failing downstream lookup is the real validator.
func SplitLabel(label string) ConnectionLabel {
	if label == "" {
		return ConnectionLabel{}
	}
	parts := strings.Split(label, ":")
	if len(parts) != 4 {
		return ConnectionLabel{Label: label}
	}
	return ConnectionLabel{
		Label: parts[3],
		DID:   strings.Join(parts[:3], ":"),
	}
}
