package vss

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateThresholdParameters(t *testing.T) {
	validator := NewDefaultThresholdValidator()

	tests := []struct {
		name         string
		trustees     int
		threshold    int
		valid        bool
		level        SecurityLevel
		wantWarnings int
	}{
		{"recommended", 5, 3, true, SecurityLevelHigh, 0},
		{"threshold one", 5, 1, true, SecurityLevelLow, 2},
		{"all trustees required", 5, 5, true, SecurityLevelMedium, 2},
		{"single trustee", 1, 1, true, SecurityLevelLow, 2},
		{"threshold above trustees", 3, 4, false, SecurityLevelLow, 0},
		{"zero threshold", 3, 0, false, SecurityLevelLow, 0},
		{"zero trustees", 0, 0, false, SecurityLevelLow, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := validator.ValidateThresholdParameters(tt.trustees, tt.threshold)
			assert.Equal(t, tt.valid, result.Valid, result.Errors)
			assert.Equal(t, tt.level, result.SecurityLevel)
			assert.Len(t, result.Warnings, tt.wantWarnings, result.Warnings)
			if !tt.valid {
				assert.NotEmpty(t, result.Errors)
				assert.ErrorIs(t, result.Err(), ErrValidation)
			} else {
				assert.NoError(t, result.Err())
			}
		})
	}
}

func TestValidateShareIndices(t *testing.T) {
	params := toyParams(t)

	assert.True(t, ValidateShareIndices(params, []int{1, 2, 3}).Valid)

	result := ValidateShareIndices(params, []int{1, 2, 2})
	assert.False(t, result.Valid)
	assert.Contains(t, result.Errors[0], "duplicate")

	result = ValidateShareIndices(params, []int{0, 1019})
	assert.False(t, result.Valid)
	assert.Contains(t, result.Errors[0], "invalid")

	assert.False(t, ValidateShareIndices(nil, []int{-1}).Valid)
	assert.False(t, ValidateShareIndices(params, nil).Valid)
}

func TestValidateFieldParams(t *testing.T) {
	t.Run("toy parameters are valid but weak", func(t *testing.T) {
		result := ValidateFieldParams(toyParams(t))
		assert.True(t, result.Valid)
		assert.Equal(t, SecurityLevelLow, result.SecurityLevel)
		assert.Len(t, result.Warnings, 2)
		assert.NotEmpty(t, result.Recommendations)
	})

	t.Run("generator outside the subgroup", func(t *testing.T) {
		params := toyParams(t)
		params.H = big.NewInt(7)
		result := ValidateFieldParams(params)
		assert.False(t, result.Valid)
		assert.Contains(t, result.Errors[0], "generator H")
	})

	t.Run("incomplete", func(t *testing.T) {
		assert.False(t, ValidateFieldParams(nil).Valid)
		assert.False(t, ValidateFieldParams(&FieldParams{P: big.NewInt(1019)}).Valid)
	})
}

func TestCheckCompatibility(t *testing.T) {
	params := toyParams(t)

	result := CheckCompatibility(params, params.Clone())
	assert.True(t, result.Valid)
	assert.Equal(t, SecurityLevelLow, result.SecurityLevel)

	other := params.Clone()
	other.H = big.NewInt(16)
	result = CheckCompatibility(params, other)
	assert.False(t, result.Valid)
	assert.Equal(t, []string{"generator H mismatch"}, result.Errors)

	result = CheckCompatibility(DefaultFieldParams(), DefaultFieldParams())
	assert.True(t, result.Valid)
	assert.Equal(t, SecurityLevelHigh, result.SecurityLevel)

	assert.False(t, CheckCompatibility(nil, params).Valid)
}

func TestValidateConfiguration(t *testing.T) {
	result := ValidateConfiguration(DefaultFieldParams(), 5, 3)
	assert.True(t, result.Valid, result.Errors)
	assert.Equal(t, SecurityLevelHigh, result.SecurityLevel)

	result = ValidateConfiguration(toyParams(t), 5, 3)
	assert.True(t, result.Valid)
	assert.Equal(t, SecurityLevelLow, result.SecurityLevel)

	result = ValidateConfiguration(toyParams(t), 1019, 3)
	assert.False(t, result.Valid)

	result = ValidateConfiguration(nil, 5, 3)
	assert.False(t, result.Valid)
}

func TestAssessSecurity(t *testing.T) {
	assessment := AssessSecurity(5, 3)
	assert.Equal(t, SecurityLevelMedium, assessment.OverallRating)
	assert.Equal(t, 2, assessment.FaultTolerance)
	assert.Equal(t, 3, assessment.CollusionResistance)
	assert.Equal(t, "medium - limited fault tolerance", assessment.AvailabilityRisk)

	assessment = AssessSecurity(5, 5)
	assert.Equal(t, SecurityLevelHigh, assessment.OverallRating)
	assert.Equal(t, "critical - no fault tolerance", assessment.AvailabilityRisk)
	assert.NotEmpty(t, assessment.SecurityRecommendations)

	assessment = AssessSecurity(10, 1)
	assert.Equal(t, SecurityLevelLow, assessment.OverallRating)

	assessment = AssessSecurity(3, 4)
	assert.Equal(t, SecurityLevelLow, assessment.OverallRating)
	assert.Contains(t, assessment.AvailabilityRisk, "critical")

	assessment = AssessSecurity(0, 0)
	require.NotEmpty(t, assessment.SecurityRecommendations)
}

func TestMinSecurityLevel(t *testing.T) {
	assert.Equal(t, SecurityLevelLow, minSecurityLevel(SecurityLevelHigh, SecurityLevelLow))
	assert.Equal(t, SecurityLevelMedium, minSecurityLevel(SecurityLevelHigh, SecurityLevelMedium))
	assert.Equal(t, SecurityLevelHigh, minSecurityLevel(SecurityLevelHigh))
	assert.Equal(t, SecurityLevelMedium, minSecurityLevel(SecurityLevel("unknown"), SecurityLevelHigh))
}
