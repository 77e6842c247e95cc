package vss

import (
	"io"
	"math/big"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// toyParams is a 10-bit field inside an 11-bit group: P = 1019, Q = 2*P + 1.
// Fast enough to enumerate, useless for security.
func toyParams(t testing.TB) *FieldParams {
	t.Helper()
	params, err := NewFieldParams(big.NewInt(1019), big.NewInt(2039), big.NewInt(4), big.NewInt(9))
	require.NoError(t, err)
	return params
}

func testReader(label string) io.Reader {
	return NewDeterministicReader([]byte("vss test seed"), []byte(label))
}

func ints(values ...int64) []*big.Int {
	out := make([]*big.Int, len(values))
	for i, v := range values {
		out[i] = big.NewInt(v)
	}
	return out
}

// recordingAuditHandler collects events for assertions
type recordingAuditHandler struct {
	mu                 sync.Mutex
	deals              []*AuditEvent
	verifications      []*ShareVerificationEvent
	reconstructions    []*AuditEvent
	validationFailures []*ValidationFailureEvent
	errors             []*AuditEvent
}

func (h *recordingAuditHandler) OnDeal(event *AuditEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.deals = append(h.deals, event)
}

func (h *recordingAuditHandler) OnShareVerification(event *ShareVerificationEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.verifications = append(h.verifications, event)
}

func (h *recordingAuditHandler) OnReconstruction(event *AuditEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.reconstructions = append(h.reconstructions, event)
}

func (h *recordingAuditHandler) OnValidationFailure(event *ValidationFailureEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.validationFailures = append(h.validationFailures, event)
}

func (h *recordingAuditHandler) OnError(event *AuditEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.errors = append(h.errors, event)
}

func assertIntsEqual(t *testing.T, want, got []*big.Int) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, 0, want[i].Cmp(got[i]), "element %d: want %s, got %s", i, want[i], got[i])
	}
}
