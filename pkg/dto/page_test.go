package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPage_Normalize(t *testing.T) {
	tests := []struct {
		in   Page
		want Page
	}{
		{Page{}, Page{Limit: DefaultPageLimit}},
		{Page{Limit: 500, Offset: 3}, Page{Limit: MaxPageLimit, Offset: 3}},
		{Page{Limit: 5, Offset: -1}, Page{Limit: 5}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.in.Normalize())
	}
}
