package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProfileComplete(t *testing.T) {
	id := "AB12345"
	empty := ""

	tests := []struct {
		name            string
		identificacion  *string
		enrolledCareers int
		want            bool
	}{
		{"identification and career", &id, 1, true},
		{"identification and several careers", &id, 3, true},
		{"missing identification", nil, 2, false},
		{"empty identification", &empty, 2, false},
		{"no careers", &id, 0, false},
		{"nothing", nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ProfileComplete(tt.identificacion, tt.enrolledCareers))
		})
	}
}
