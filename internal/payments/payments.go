package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
)

// SignatureHeader carries the hex HMAC-SHA256 of the raw request body.
const SignatureHeader = "X-Payment-Signature"

const EventCheckoutCompleted = "checkout.completed"

var ErrBadSignature = errors.New("payment webhook signature mismatch")

type Event struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		OrderNumber string `json:"order_number"`
		Email       string `json:"email"`
		AmountCents int64  `json:"amount_cents"`
	} `json:"data"`
}

func Sign(payload, secret []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func Verify(payload []byte, signature string, secret []byte) error {
	expected := Sign(payload, secret)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrBadSignature
	}
	return nil
}

func ParseEvent(payload []byte) (*Event, error) {
	var ev Event
	if err := json.Unmarshal(payload, &ev); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}
	if ev.Type == "" {
		return nil, fmt.Errorf("event has no type")
	}
	return &ev, nil
}
