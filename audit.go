package vss

import (
	"crypto/rand"
	"fmt"
	"time"
)

// AuditEventType represents the type of audit event
type AuditEventType string

const (
	AuditEventDeal              AuditEventType = "deal"
	AuditEventShareVerification AuditEventType = "share_verification"
	AuditEventReconstruction    AuditEventType = "reconstruction"

	// Error events
	AuditEventValidationFailure AuditEventType = "validation_failure"
	AuditEventError             AuditEventType = "error"
)

// AuditEventReason represents why an event occurred
type AuditEventReason string

const (
	ReasonDealRequested    AuditEventReason = "deal_requested"
	ReasonTrusteeCheck     AuditEventReason = "trustee_check"
	ReasonBatchCheck       AuditEventReason = "batch_check"
	ReasonRecovery         AuditEventReason = "recovery"
	ReasonDigestCheck      AuditEventReason = "digest_check"
	ReasonValidationError  AuditEventReason = "validation_error"
	ReasonOperationFailure AuditEventReason = "operation_failure"
)

// AuditEvent represents a single audit event. Events never carry secrets,
// shares or polynomial coefficients.
type AuditEvent struct {
	// Event metadata
	EventID   string           `json:"event_id"`
	Timestamp time.Time        `json:"timestamp"`
	EventType AuditEventType   `json:"event_type"`
	Reason    AuditEventReason `json:"reason"`

	Threshold  int   `json:"threshold,omitempty"`
	ShareCount int   `json:"share_count,omitempty"`
	Indices    []int `json:"indices,omitempty"`

	DigestAlgorithm DigestAlgorithm `json:"digest_algorithm,omitempty"`

	// Success/failure information
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`

	Duration time.Duration          `json:"duration,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// ShareVerificationEvent contains the outcome of verifying one or more shares
type ShareVerificationEvent struct {
	AuditEvent

	// Valid and Invalid partition Indices
	Valid   []int `json:"valid,omitempty"`
	Invalid []int `json:"invalid,omitempty"`
}

// ValidationFailureEvent contains details about rejected input
type ValidationFailureEvent struct {
	AuditEvent

	ValidationType string                 `json:"validation_type"` // "threshold", "share", "params"
	FailureReason  string                 `json:"failure_reason"`
	InputValues    map[string]interface{} `json:"input_values,omitempty"`
}

// AuditEventHandler defines the interface for handling audit events.
// Applications implement it to record events according to their needs;
// handlers may be called from several goroutines.
type AuditEventHandler interface {
	// OnDeal is called after shares and commitments have been produced
	OnDeal(event *AuditEvent)

	// OnShareVerification is called after shares were checked against commitments
	OnShareVerification(event *ShareVerificationEvent)

	// OnReconstruction is called after a reconstruction attempt
	OnReconstruction(event *AuditEvent)

	// OnValidationFailure is called when input is rejected
	OnValidationFailure(event *ValidationFailureEvent)

	// OnError is called for general error events
	OnError(event *AuditEvent)
}

// NullAuditHandler is a no-op implementation of AuditEventHandler
type NullAuditHandler struct{}

func (n *NullAuditHandler) OnDeal(event *AuditEvent)                          {}
func (n *NullAuditHandler) OnShareVerification(event *ShareVerificationEvent) {}
func (n *NullAuditHandler) OnReconstruction(event *AuditEvent)                {}
func (n *NullAuditHandler) OnValidationFailure(event *ValidationFailureEvent) {}
func (n *NullAuditHandler) OnError(event *AuditEvent)                         {}

// AuditEventBuilder helps construct audit events with proper defaults
type AuditEventBuilder struct {
	event *AuditEvent
}

// NewAuditEventBuilder creates a new audit event builder
func NewAuditEventBuilder(eventType AuditEventType, reason AuditEventReason) *AuditEventBuilder {
	return &AuditEventBuilder{
		event: &AuditEvent{
			EventID:   generateEventID(),
			Timestamp: time.Now(),
			EventType: eventType,
			Reason:    reason,
			Success:   true, // Default to success, can be overridden
			Metadata:  make(map[string]interface{}),
		},
	}
}

// WithThreshold sets the threshold the operation ran with
func (b *AuditEventBuilder) WithThreshold(threshold int) *AuditEventBuilder {
	b.event.Threshold = threshold
	return b
}

// WithShares records how many shares took part and their indices
func (b *AuditEventBuilder) WithShares(count int, indices []int) *AuditEventBuilder {
	b.event.ShareCount = count
	b.event.Indices = indices
	return b
}

// WithDigest sets the digest algorithm involved
func (b *AuditEventBuilder) WithDigest(algorithm DigestAlgorithm) *AuditEventBuilder {
	b.event.DigestAlgorithm = algorithm
	return b
}

// WithDuration sets the time the operation took
func (b *AuditEventBuilder) WithDuration(d time.Duration) *AuditEventBuilder {
	b.event.Duration = d
	return b
}

// WithError marks the event as failed and sets error information
func (b *AuditEventBuilder) WithError(err error) *AuditEventBuilder {
	b.event.Success = false
	if err != nil {
		b.event.Error = err.Error()
	}
	return b
}

// WithMetadata adds metadata to the event
func (b *AuditEventBuilder) WithMetadata(key string, value interface{}) *AuditEventBuilder {
	b.event.Metadata[key] = value
	return b
}

// Build returns the constructed audit event
func (b *AuditEventBuilder) Build() *AuditEvent {
	return b.event
}

// BuildShareVerification returns a ShareVerificationEvent. The event fails
// when any share is invalid.
func (b *AuditEventBuilder) BuildShareVerification(valid, invalid []int) *ShareVerificationEvent {
	event := &ShareVerificationEvent{
		AuditEvent: *b.event,
		Valid:      valid,
		Invalid:    invalid,
	}
	if len(invalid) > 0 {
		event.Success = false
	}
	return event
}

// BuildValidationFailure returns a ValidationFailureEvent
func (b *AuditEventBuilder) BuildValidationFailure(validationType, failureReason string, inputValues map[string]interface{}) *ValidationFailureEvent {
	event := &ValidationFailureEvent{
		AuditEvent:     *b.event,
		ValidationType: validationType,
		FailureReason:  failureReason,
		InputValues:    inputValues,
	}
	event.Success = false
	return event
}

// generateEventID combines a timestamp with random bytes so that events
// created in the same microsecond stay distinct
func generateEventID() string {
	timestamp := time.Now().Format("20060102150405.000000")

	randomBytes := make([]byte, 4)
	if _, err := rand.Read(randomBytes); err != nil {
		return fmt.Sprintf("%s.%d", timestamp, time.Now().UnixNano()%10000)
	}

	return fmt.Sprintf("%s.%x", timestamp, randomBytes)
}
