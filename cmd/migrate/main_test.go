package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskDatabaseURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"credentials", "postgres://user:secret@db:5432/webhooks?sslmode=disable", "postgres://user:xxxxx@db:5432/webhooks"},
		{"no credentials", "postgres://db:5432/webhooks", "postgres://db:5432/webhooks"},
		{"not a url", "::", "***"},
		{"empty", "", "***"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, maskDatabaseURL(tt.url))
		})
	}
}
