package engagement

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFingerprintDeterministic(t *testing.T) {
	h := NewHasher("salt-a")

	a := h.Fingerprint(TagView, "203.0.113.7", "Mozilla/5.0")
	b := h.Fingerprint(TagView, "203.0.113.7", "Mozilla/5.0")

	assert.Equal(t, a, b)
	assert.Len(t, a, 32)
}

func TestFingerprintDomainSeparation(t *testing.T) {
	h := NewHasher("salt-a")

	view := h.Fingerprint(TagView, "203.0.113.7", "Mozilla/5.0")
	like := h.Fingerprint(TagLike, "203.0.113.7", "Mozilla/5.0")
	comment := h.Fingerprint(TagComment, "203.0.113.7", "Mozilla/5.0")

	assert.NotEqual(t, view, like)
	assert.NotEqual(t, view, comment)
	assert.NotEqual(t, like, comment)
}

func TestFingerprintVariesByInput(t *testing.T) {
	h := NewHasher("salt-a")
	base := h.Fingerprint(TagView, "203.0.113.7", "Mozilla/5.0")

	tests := []struct {
		name string
		got  string
	}{
		{"different ip", h.Fingerprint(TagView, "203.0.113.8", "Mozilla/5.0")},
		{"different ua", h.Fingerprint(TagView, "203.0.113.7", "curl/8.0")},
		{"different salt", NewHasher("salt-b").Fingerprint(TagView, "203.0.113.7", "Mozilla/5.0")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotEqual(t, base, tt.got)
		})
	}
}
