package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateFilter(t *testing.T) {
	tests := []struct {
		name    string
		filter  Filter
		wantErr error
	}{
		{"valid filter", Filter{Page: 1, PageSize: 25}, nil},
		{"valid with status and search", Filter{Status: StatusFailed, Search: "tax", Page: 3, PageSize: 10}, nil},
		{"zero page", Filter{Page: 0, PageSize: 25}, ErrInvalidPage},
		{"negative page", Filter{Page: -1, PageSize: 25}, ErrInvalidPage},
		{"zero page size", Filter{Page: 1, PageSize: 0}, ErrInvalidPageSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFilter(tt.filter)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidFilter)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidateJob(t *testing.T) {
	err := ValidateJob(nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidJob)

	err = ValidateJob(&IngestionJob{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyJobID)

	assert.NoError(t, ValidateJob(&IngestionJob{JobID: "j1"}))
}

func TestValidateJobIDs(t *testing.T) {
	assert.NoError(t, ValidateJobIDs([]string{"a", "b"}))

	err := ValidateJobIDs(nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidJob)

	err = ValidateJobIDs([]string{"a", ""})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyJobID)
}
