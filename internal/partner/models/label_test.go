package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitLabelFourSegments(t *testing.T) {
	cases := []struct {
		name      string
		label     string
		wantDID   string
		wantLabel string
	}{
		{"sov did with label", "did:sov:abc:123", "did:sov:abc", "123"},
		{"readable label part", "did:sov:F6dB7dMVHUQSC64qemnBi7:Acme Corp", "did:sov:F6dB7dMVHUQSC64qemnBi7", "Acme Corp"},
		{"structure is not validated", "foo:bar:baz:qux", "foo:bar:baz", "qux"},
		{"empty trailing label", "did:sov:abc:", "did:sov:abc", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cl := SplitLabel(tc.label)
			assert.Equal(t, tc.wantDID, cl.DID)
			assert.Equal(t, tc.wantLabel, cl.Label)
			assert.True(t, cl.HasDID() == (tc.wantDID != ""))
		})
	}
}

func TestSplitLabelOtherShapes(t *testing.T) {
	cases := []struct {
		name  string
		label string
	}{
		{"plain label", "Acme Corp"},
		{"two segments", "did:sov"},
		{"three segments", "did:sov:abc"},
		{"five segments", "did:sov:abc:123:Acme Corp"},
		{"only delimiters", ":::::"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cl := SplitLabel(tc.label)
			assert.False(t, cl.HasDID())
			assert.Equal(t, tc.label, cl.Label, "non-matching input must pass through unchanged")
		})
	}
}

func TestSplitLabelEmpty(t *testing.T) {
	cl := SplitLabel("")
	assert.Empty(t, cl.Label)
	assert.False(t, cl.HasDID())
}
