package payments

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndVerify(t *testing.T) {
	t.Parallel()

	secret := []byte("whsec_test")
	payload := []byte(`{"id":"evt_1","type":"checkout.completed"}`)

	sig := Sign(payload, secret)
	require.NotEmpty(t, sig)
	assert.NoError(t, Verify(payload, sig, secret))

	assert.ErrorIs(t, Verify(payload, sig, []byte("other")), ErrBadSignature)
	assert.ErrorIs(t, Verify([]byte(`{"tampered":true}`), sig, secret), ErrBadSignature)
	assert.ErrorIs(t, Verify(payload, "", secret), ErrBadSignature)
}

func TestParseEvent(t *testing.T) {
	t.Parallel()

	ev, err := ParseEvent([]byte(`{
		"id": "evt_1",
		"type": "checkout.completed",
		"data": {"order_number": "ord-42", "email": "a@x.com", "amount_cents": 19900}
	}`))
	require.NoError(t, err)
	assert.Equal(t, EventCheckoutCompleted, ev.Type)
	assert.Equal(t, "ord-42", ev.Data.OrderNumber)
	assert.Equal(t, int64(19900), ev.Data.AmountCents)

	_, err = ParseEvent([]byte(`not json`))
	assert.Error(t, err)

	_, err = ParseEvent([]byte(`{"id":"evt_2"}`))
	assert.Error(t, err)
}
