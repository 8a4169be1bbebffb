// file: controllers/challenge_controller_test.go
package controllers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AstraCTF/dto"
	"AstraCTF/models"
	"AstraCTF/utils"
)

func intPtr(v int) *int { return &v }

func TestValidateScoringBounds(t *testing.T) {
	stored := models.Challenge{Points: 300, Minimum: 100}

	tests := []struct {
		name    string
		req     dto.UpdateScoringReq
		wantErr bool
	}{
		{
			name:    "no bounds touched",
			req:     dto.UpdateScoringReq{Decay: floatPtr(0.9)},
			wantErr: false,
		},
		{
			name:    "minimum raised but still under stored initial",
			req:     dto.UpdateScoringReq{Minimum: intPtr(250)},
			wantErr: false,
		},
		{
			name:    "minimum alone exceeds stored initial",
			req:     dto.UpdateScoringReq{Minimum: intPtr(400)},
			wantErr: true,
		},
		{
			name:    "initial alone drops below stored minimum",
			req:     dto.UpdateScoringReq{Initial: intPtr(50)},
			wantErr: true,
		},
		{
			name:    "both present and conflicting",
			req:     dto.UpdateScoringReq{Initial: intPtr(200), Minimum: intPtr(201)},
			wantErr: true,
		},
		{
			name:    "both present and consistent",
			req:     dto.UpdateScoringReq{Initial: intPtr(200), Minimum: intPtr(200)},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateScoringBounds(stored, tt.req)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			apiErr := utils.AsAPIError(err)
			assert.Equal(t, 422, apiErr.Status)
			assert.Equal(t, "minimum must be ≤ initial", apiErr.Message)
		})
	}
}

func floatPtr(v float64) *float64 { return &v }
