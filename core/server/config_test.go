package server_test

import (
	"testing"
	"time"

	"catalog-sync/core/server"

	"github.com/stretchr/testify/assert"
)

func TestConfig_ReadTimeout(t *testing.T) {
	tests := []struct {
		name    string
		seconds int
		want    time.Duration
	}{
		{"Configured", 5, 5 * time.Second},
		{"Zero", 0, 15 * time.Second},
		{"Negative", -1, 15 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := server.Config{ReadTimeoutSeconds: tt.seconds}
			assert.Equal(t, tt.want, c.ReadTimeout())
		})
	}
}

func TestConfig_Protected(t *testing.T) {
	assert.False(t, server.Config{}.Protected())
	assert.True(t, server.Config{ApiKey: "k"}.Protected())
}
