package payment

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strconv"
	"time"
)

// OrderPrefix starts every order reference.
const OrderPrefix = "ORD-"

// NewOrderReference returns OrderPrefix followed by now in Unix milliseconds.
// Two calls within the same millisecond return the same reference.
func NewOrderReference(now time.Time) string {
	return OrderPrefix + strconv.FormatInt(now.UnixMilli(), 10)
}

// Signer computes the payment signature the gateway echoes back on callbacks.
//
// The signature is an unkeyed SHA-256 over merchant code, order reference,
// currency, amount and callback URL. Every input is either public or chosen
// by the caller, so anyone who has seen one transaction can forge a valid
// callback. It is kept as is because the gateway contract expects it.
type Signer struct {
	MerchantCode string
	CallbackURL  string
}

// Sign returns the lowercase hex signature for one order.
func (s Signer) Sign(orderReference, amount string) string {
	sum := sha256.Sum256([]byte(s.MerchantCode + orderReference + Currency + amount + s.CallbackURL))
	return hex.EncodeToString(sum[:])
}

// Verify reports whether hash equals the recomputed signature.
func (s Signer) Verify(orderReference, amount, hash string) bool {
	expected := s.Sign(orderReference, amount)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(hash)) == 1
}
