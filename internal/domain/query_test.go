package domain

import (
	"encoding/json"
	"testing"

	apperrors "github.com/shhac/prqueries/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDirection(t *testing.T) {
	tests := []struct {
		in      string
		want    Direction
		wantErr bool
	}{
		{"up", DirectionUp, false},
		{"down", DirectionDown, false},
		{" UP ", DirectionUp, false},
		{"Down", DirectionDown, false},
		{"", "", true},
		{"left", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDirection(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrInvalidDirection)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewRepositoryRecord_EncodesEmptyArrays(t *testing.T) {
	data, err := json.Marshal(NewRepositoryRecord())
	require.NoError(t, err)
	assert.JSONEq(t, `{"queryHistory":[],"savedQueries":[]}`, string(data))
}
