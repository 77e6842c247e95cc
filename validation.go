package vss

import (
	"fmt"
	"math"
	"math/big"
)

// SecurityLevel represents the security level of a parameter set
type SecurityLevel string

const (
	SecurityLevelLow    SecurityLevel = "low"
	SecurityLevelMedium SecurityLevel = "medium"
	SecurityLevelHigh   SecurityLevel = "high"
)

// Parameter size guidance
const (
	RecommendedFieldBits = 127
	RecommendedGroupBits = 2048
)

// ValidationResult contains the result of parameter validation
type ValidationResult struct {
	Valid           bool          `json:"valid"`
	SecurityLevel   SecurityLevel `json:"security_level"`
	Warnings        []string      `json:"warnings,omitempty"`
	Errors          []string      `json:"errors,omitempty"`
	Recommendations []string      `json:"recommendations,omitempty"`
}

func newValidationResult() *ValidationResult {
	return &ValidationResult{
		Valid:           true,
		SecurityLevel:   SecurityLevelMedium,
		Warnings:        []string{},
		Errors:          []string{},
		Recommendations: []string{},
	}
}

func (r *ValidationResult) fail(format string, args ...interface{}) {
	r.Valid = false
	r.SecurityLevel = SecurityLevelLow
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Err converts a failed result into an ErrValidation carrying the messages
func (r *ValidationResult) Err() error {
	if r.Valid {
		return nil
	}
	return ErrValidation.WithDetails("%v", r.Errors).WithContext("warnings", r.Warnings)
}

// ThresholdValidator provides advisory checks for (trustees, threshold) pairs.
// The engine itself only enforces 1 <= threshold <= trustees.
type ThresholdValidator struct {
	MinTrustees         int     `json:"min_trustees"`
	MinThreshold        int     `json:"min_threshold"`
	MaxThreshold        int     `json:"max_threshold"`
	RecommendedMinRatio float64 `json:"recommended_min_ratio"` // below this a small coalition recovers the secret
	RecommendedMaxRatio float64 `json:"recommended_max_ratio"` // above this a few lost shares lose the secret
}

// NewDefaultThresholdValidator creates a validator with default bounds
func NewDefaultThresholdValidator() *ThresholdValidator {
	return &ThresholdValidator{
		MinTrustees:         1,
		MinThreshold:        1,
		MaxThreshold:        1000,
		RecommendedMinRatio: 0.51,
		RecommendedMaxRatio: 0.80,
	}
}

// ValidateThresholdParameters validates a trustee count and threshold
func (tv *ThresholdValidator) ValidateThresholdParameters(trustees, threshold int) *ValidationResult {
	result := newValidationResult()

	if threshold <= 0 {
		result.fail("threshold must be positive")
	}
	if trustees <= 0 {
		result.fail("trustee count must be positive")
	}
	if threshold > trustees {
		result.fail("threshold %d cannot exceed trustee count %d", threshold, trustees)
	}
	if !result.Valid {
		return result
	}

	if trustees < tv.MinTrustees {
		result.fail("minimum %d trustees required", tv.MinTrustees)
	}
	if threshold < tv.MinThreshold {
		result.fail("minimum threshold of %d required", tv.MinThreshold)
	}
	if threshold > tv.MaxThreshold {
		result.fail("threshold exceeds maximum of %d", tv.MaxThreshold)
	}
	if !result.Valid {
		return result
	}

	ratio := float64(threshold) / float64(trustees)
	optimalMin := int(math.Ceil(float64(trustees) * tv.RecommendedMinRatio))
	optimalMax := int(math.Ceil(float64(trustees) * tv.RecommendedMaxRatio))

	switch {
	case ratio < tv.RecommendedMinRatio:
		result.SecurityLevel = SecurityLevelLow
		result.Warnings = append(result.Warnings, "threshold ratio is below recommended minimum")
		result.Recommendations = append(result.Recommendations, fmt.Sprintf("consider increasing threshold to at least %d", optimalMin))
	case ratio > tv.RecommendedMaxRatio:
		result.Warnings = append(result.Warnings, "threshold ratio is high, losing a few shares loses the secret")
	default:
		result.SecurityLevel = SecurityLevelHigh
	}

	if threshold == 1 {
		result.SecurityLevel = SecurityLevelLow
		result.Warnings = append(result.Warnings, "threshold of 1 lets any single trustee recover the secret")
	}
	if threshold == trustees && trustees > 1 {
		result.Warnings = append(result.Warnings, "threshold equals trustee count - no share may be lost")
	}
	if threshold < optimalMin || threshold > optimalMax {
		result.Recommendations = append(result.Recommendations,
			fmt.Sprintf("recommended threshold range for %d trustees is %d-%d", trustees, optimalMin, optimalMax))
	}

	return result
}

// ValidateShareIndices checks a set of revealed indices for duplicates and
// values outside the field
func ValidateShareIndices(params *FieldParams, indices []int) *ValidationResult {
	result := newValidationResult()

	if len(indices) == 0 {
		result.fail("index list cannot be empty")
		return result
	}

	seen := make(map[int]bool, len(indices))
	var duplicates, invalid []int
	for _, index := range indices {
		if seen[index] {
			duplicates = append(duplicates, index)
		}
		seen[index] = true
		if params != nil {
			if _, err := params.indexElement(index); err != nil {
				invalid = append(invalid, index)
			}
		} else if index < 1 {
			invalid = append(invalid, index)
		}
	}

	if len(duplicates) > 0 {
		result.fail("duplicate share indices found: %v", duplicates)
	}
	if len(invalid) > 0 {
		result.fail("invalid share indices found: %v", invalid)
	}
	return result
}

// ValidateFieldParams checks the structural properties NewFieldParams
// enforces and warns about undersized fields and groups
func ValidateFieldParams(params *FieldParams) *ValidationResult {
	result := newValidationResult()

	if params == nil || params.P == nil || params.GroupModulus == nil || params.G == nil || params.H == nil {
		result.fail("field parameters are incomplete")
		return result
	}

	if err := validateFieldPrimes(params.P, params.GroupModulus); err != nil {
		result.fail("%v", err)
		return result
	}
	if err := validateGenerator(params.P, params.GroupModulus, params.G); err != nil {
		result.fail("generator G: %v", err)
	}
	if err := validateGenerator(params.P, params.GroupModulus, params.H); err != nil {
		result.fail("generator H: %v", err)
	}
	if params.G.Cmp(params.H) == 0 {
		result.fail("generators G and H must differ")
	}
	if !result.Valid {
		return result
	}

	result.SecurityLevel = SecurityLevelHigh
	if bits := params.P.BitLen(); bits < RecommendedFieldBits {
		result.SecurityLevel = SecurityLevelLow
		result.Warnings = append(result.Warnings, fmt.Sprintf("field prime has %d bits, secrets can be brute forced", bits))
	}
	if bits := params.GroupModulus.BitLen(); bits < RecommendedGroupBits {
		result.SecurityLevel = SecurityLevelLow
		result.Warnings = append(result.Warnings, fmt.Sprintf("group modulus has %d bits, commitments are not binding", bits))
		result.Recommendations = append(result.Recommendations, "use DefaultFieldParams for production deals")
	}
	return result
}

// CheckCompatibility checks that shares dealt under published can be verified
// and reconstructed under local
func CheckCompatibility(published, local *FieldParams) *ValidationResult {
	result := newValidationResult()

	if published == nil || local == nil {
		result.fail("parameters cannot be nil")
		return result
	}

	compare := func(name string, a, b *big.Int) {
		if !intsEqual(a, b) {
			result.fail("%s mismatch", name)
		}
	}
	compare("field prime", published.P, local.P)
	compare("group modulus", published.GroupModulus, local.GroupModulus)
	compare("generator G", published.G, local.G)
	compare("generator H", published.H, local.H)

	if result.Valid {
		result.SecurityLevel = fieldSecurityLevel(local)
	}
	return result
}

// fieldSecurityLevel grades parameter sizes without repeating primality tests
func fieldSecurityLevel(params *FieldParams) SecurityLevel {
	if params.P.BitLen() < RecommendedFieldBits || params.GroupModulus.BitLen() < RecommendedGroupBits {
		return SecurityLevelLow
	}
	return SecurityLevelHigh
}

// ValidateConfiguration validates field parameters and threshold settings
// together. The security level is the lowest of the individual checks.
func ValidateConfiguration(params *FieldParams, trustees, threshold int) *ValidationResult {
	result := newValidationResult()

	paramsResult := ValidateFieldParams(params)
	thresholdResult := NewDefaultThresholdValidator().ValidateThresholdParameters(trustees, threshold)

	for _, r := range []*ValidationResult{paramsResult, thresholdResult} {
		if !r.Valid {
			result.Valid = false
		}
		result.Errors = append(result.Errors, r.Errors...)
		result.Warnings = append(result.Warnings, r.Warnings...)
		result.Recommendations = append(result.Recommendations, r.Recommendations...)
	}

	result.SecurityLevel = minSecurityLevel(paramsResult.SecurityLevel, thresholdResult.SecurityLevel)
	if params != nil && params.P != nil && big.NewInt(int64(trustees)).Cmp(params.P) >= 0 {
		result.fail("trustee count %d must be below the field prime", trustees)
	}
	return result
}

// SecurityAssessment describes what a (trustees, threshold) pair tolerates
type SecurityAssessment struct {
	OverallRating           SecurityLevel `json:"overall_rating"`
	FaultTolerance          int           `json:"fault_tolerance"`      // shares that may be lost
	CollusionResistance     int           `json:"collusion_resistance"` // trustees needed to recover the secret
	AvailabilityRisk        string        `json:"availability_risk"`
	SecurityRecommendations []string      `json:"security_recommendations"`
}

// AssessSecurity provides a security assessment of a sharing configuration
func AssessSecurity(trustees, threshold int) *SecurityAssessment {
	if trustees <= 0 || threshold <= 0 {
		return &SecurityAssessment{
			OverallRating:           SecurityLevelLow,
			AvailabilityRisk:        "critical - invalid parameters",
			SecurityRecommendations: []string{"trustees and threshold must be positive integers"},
		}
	}
	if threshold > trustees {
		return &SecurityAssessment{
			OverallRating:           SecurityLevelLow,
			AvailabilityRisk:        "critical - threshold exceeds trustee count",
			SecurityRecommendations: []string{"threshold cannot exceed trustee count"},
		}
	}

	faultTolerance := trustees - threshold
	assessment := &SecurityAssessment{
		FaultTolerance:          faultTolerance,
		CollusionResistance:     threshold,
		SecurityRecommendations: []string{},
	}

	ratio := float64(threshold) / float64(trustees)
	switch {
	case ratio < 0.5 || threshold == 1:
		assessment.OverallRating = SecurityLevelLow
	case ratio >= 0.67:
		assessment.OverallRating = SecurityLevelHigh
	default:
		assessment.OverallRating = SecurityLevelMedium
	}

	switch {
	case faultTolerance == 0:
		assessment.AvailabilityRisk = "critical - no fault tolerance"
	case faultTolerance == 1:
		assessment.AvailabilityRisk = "high - single lost share tolerated"
	case faultTolerance <= 3:
		assessment.AvailabilityRisk = "medium - limited fault tolerance"
	default:
		assessment.AvailabilityRisk = "low - good fault tolerance"
	}

	if faultTolerance < 2 {
		assessment.SecurityRecommendations = append(assessment.SecurityRecommendations,
			"consider adding trustees or reducing threshold so lost shares do not lose the secret")
	}
	if assessment.OverallRating == SecurityLevelLow {
		assessment.SecurityRecommendations = append(assessment.SecurityRecommendations,
			"a small coalition of trustees can recover the secret - review the threshold")
	}

	return assessment
}

// minSecurityLevel returns the lower of two security levels
func minSecurityLevel(levels ...SecurityLevel) SecurityLevel {
	rank := map[SecurityLevel]int{
		SecurityLevelLow:    1,
		SecurityLevelMedium: 2,
		SecurityLevelHigh:   3,
	}
	lowest := SecurityLevelHigh
	for _, level := range levels {
		r, ok := rank[level]
		if !ok {
			r = 2 // unknown counts as medium
			level = SecurityLevelMedium
		}
		if r < rank[lowest] {
			lowest = level
		}
	}
	return lowest
}
