package enum

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvoiceStatusJSON(t *testing.T) {
	raw, err := json.Marshal(InvoiceStatusOverdue)
	require.NoError(t, err)
	assert.Equal(t, `"OVERDUE"`, string(raw))

	var s InvoiceStatus
	require.NoError(t, json.Unmarshal([]byte(`"paid"`), &s))
	assert.Equal(t, InvoiceStatusPaid, s)

	require.NoError(t, json.Unmarshal([]byte(`1`), &s))
	assert.Equal(t, InvoiceStatusSent, s)

	assert.Error(t, json.Unmarshal([]byte(`"ARCHIVED"`), &s))
	assert.Error(t, json.Unmarshal([]byte(`42`), &s))
}

func TestPaymentMethodParse(t *testing.T) {
	m, err := ParsePaymentMethod("e_transfer")
	require.NoError(t, err)
	assert.Equal(t, PaymentMethodETransfer, m)
	assert.Equal(t, "E_TRANSFER", m.String())

	_, err = ParsePaymentMethod("bitcoin")
	assert.Error(t, err)
}

func TestScan(t *testing.T) {
	var s JobStatus
	require.NoError(t, s.Scan(int64(2)))
	assert.Equal(t, JobStatusCompleted, s)

	require.NoError(t, s.Scan(nil))
	assert.Equal(t, JobStatusScheduled, s)

	assert.Error(t, s.Scan(3.5))
}

func TestRules(t *testing.T) {
	assert.True(t, InvoiceStatusDraft.IsEditable())
	assert.False(t, InvoiceStatusSent.IsEditable())
	assert.False(t, InvoiceStatusCancelled.IsCollectable())
	assert.True(t, LeadStatusQualified.IsOpen())
	assert.False(t, LeadStatusConverted.IsOpen())
	assert.False(t, JobStatus(9).IsValid())
	assert.Equal(t, "UNKNOWN", JobStatus(9).String())
}

func TestInvoiceTransitions(t *testing.T) {
	assert.True(t, InvoiceStatusDraft.CanTransitionTo(InvoiceStatusSent))
	assert.True(t, InvoiceStatusSent.CanTransitionTo(InvoiceStatusPaid))
	assert.True(t, InvoiceStatusPaid.CanTransitionTo(InvoiceStatusSent))
	assert.False(t, InvoiceStatusDraft.CanTransitionTo(InvoiceStatusPaid))
	assert.False(t, InvoiceStatusCancelled.CanTransitionTo(InvoiceStatusDraft))
	assert.False(t, InvoiceStatusSent.CanTransitionTo(InvoiceStatusDraft))
}

func TestEstimateEditable(t *testing.T) {
	assert.True(t, EstimateStatusSent.IsEditable())
	assert.False(t, EstimateStatusAccepted.IsEditable())
}
