package cli

import (
	"context"
	"log/slog"

	"github.com/canopy-network/canopy/lib/vss"
)

// logAuditHandler forwards engine audit events to the CLI logger
type logAuditHandler struct {
	logger *slog.Logger
}

func newLogAuditHandler(logger *slog.Logger) *logAuditHandler {
	return &logAuditHandler{logger: logger.With("component", "vss")}
}

func (h *logAuditHandler) OnDeal(event *vss.AuditEvent) {
	h.logger.Debug("shares dealt",
		"event_id", event.EventID,
		"threshold", event.Threshold,
		"shares", event.ShareCount,
		"duration", event.Duration)
}

func (h *logAuditHandler) OnShareVerification(event *vss.ShareVerificationEvent) {
	level := slog.LevelDebug
	if !event.Success {
		level = slog.LevelWarn
	}
	h.logger.Log(context.Background(), level, "shares verified",
		"event_id", event.EventID,
		"valid", event.Valid,
		"invalid", event.Invalid,
		"duration", event.Duration)
}

func (h *logAuditHandler) OnReconstruction(event *vss.AuditEvent) {
	h.logger.Debug("secret reconstructed",
		"event_id", event.EventID,
		"indices", event.Indices,
		"digest", event.DigestAlgorithm,
		"success", event.Success)
}

func (h *logAuditHandler) OnValidationFailure(event *vss.ValidationFailureEvent) {
	h.logger.Warn("input rejected",
		"event_id", event.EventID,
		"type", event.ValidationType,
		"reason", event.FailureReason)
}

func (h *logAuditHandler) OnError(event *vss.AuditEvent) {
	h.logger.Error("operation failed",
		"event_id", event.EventID,
		"error", event.Error)
}
