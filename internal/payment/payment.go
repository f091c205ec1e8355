package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

// Currency is the only currency the relay submits.
const Currency = "KES"

// DonationRequest is the body accepted by the donation endpoint
type DonationRequest struct {
	Amount     Amount `json:"amount"`
	DonorName  string `json:"donorName"`
	DonorPhone string `json:"donorPhone"`
}

// Amount holds the caller's amount as the text the signature is computed
// over. A quoted string is kept verbatim. A JSON number is rewritten the way
// JavaScript prints it (500.50 becomes 500.5, 5e2 becomes 500), which is
// what the gateway's reference integration signs.
type Amount string

func (a *Amount) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*a = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := jsoniter.Unmarshal(data, &str); err != nil {
			return err
		}
		*a = Amount(str)
		return nil
	}
	if !isJSONNumber(s) {
		return fmt.Errorf("amount must be a number or a string, got %s", s)
	}
	*a = Amount(formatNumber(s))
	return nil
}

// MarshalJSON writes numeric amounts as JSON numbers and anything else as a string.
func (a Amount) MarshalJSON() ([]byte, error) {
	if a.IsNumeric() {
		return []byte(a), nil
	}
	return jsoniter.Marshal(string(a))
}

// IsNumeric reports whether a is a JSON number literal.
func (a Amount) IsNumeric() bool {
	return isJSONNumber(string(a))
}

// isJSONNumber checks s against the JSON number grammar.
func isJSONNumber(s string) bool {
	i, n := 0, len(s)
	digits := func() int {
		start := i
		for i < n && s[i] >= '0' && s[i] <= '9' {
			i++
		}
		return i - start
	}

	if i < n && s[i] == '-' {
		i++
	}
	switch {
	case i < n && s[i] == '0':
		i++
	case i < n && s[i] >= '1' && s[i] <= '9':
		digits()
	default:
		return false
	}
	if i < n && s[i] == '.' {
		i++
		if digits() == 0 {
			return false
		}
	}
	if i < n && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < n && (s[i] == '+' || s[i] == '-') {
			i++
		}
		if digits() == 0 {
			return false
		}
	}
	return i == n
}

// formatNumber prints a JSON number literal the way JavaScript's
// Number.prototype.toString does. Literals outside float64 range are
// returned unchanged.
func formatNumber(s string) string {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) {
		return s
	}
	if f == 0 {
		return "0"
	}
	if abs := math.Abs(f); abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	// Go pads the exponent to two digits, JavaScript does not.
	out := strconv.FormatFloat(f, 'e', -1, 64)
	mant, exp, _ := strings.Cut(out, "e")
	sign := exp[:1]
	exp = strings.TrimLeft(exp[1:], "0")
	return mant + "e" + sign + exp
}

func (a Amount) String() string { return string(a) }

// SplitName splits a donor name at the first space. The last name is empty
// when the name has no space.
func SplitName(full string) (first, last string) {
	first, last, _ = strings.Cut(full, " ")
	return first, last
}

// PaymentRequest is the processPayment payload expected by the gateway
type PaymentRequest struct {
	Token                 string `json:"token"`
	MerchantCode          string `json:"merchantCode"`
	Currency              string `json:"currency"`
	OrderAmount           Amount `json:"orderAmount"`
	OrderReference        string `json:"orderReference"`
	ProductType           string `json:"productType"`
	ProductDescription    string `json:"productDescription"`
	PaymentTimeLimit      string `json:"paymentTimeLimit"`
	CustomerFirstName     string `json:"customerFirstName"`
	CustomerLastName      string `json:"customerLastName"`
	CustomerPostalCodeZip string `json:"customerPostalCodeZip"`
	CustomerAddress       string `json:"customerAddress"`
	CustomerEmail         string `json:"customerEmail"`
	CustomerPhone         string `json:"customerPhone"`
	CallbackURL           string `json:"callbackUrl"`
	CountryCode           string `json:"countryCode"`
	SecondaryReference    string `json:"secondaryReference"`
	Signature             string `json:"signature"`
}

// CallbackPayload holds the query parameters of a gateway status callback
type CallbackPayload struct {
	TransactionID  string `json:"transactionId"`
	Status         string `json:"status"`
	Date           string `json:"date"`
	Desc           string `json:"desc"`
	Amount         string `json:"amount"`
	OrderReference string `json:"orderReference"`
	Hash           string `json:"-"`
	ExtraData      string `json:"extraData"`
}

// Gateway defines the upstream calls a donation needs
type Gateway interface {
	// Authenticate exchanges merchant credentials for an access token.
	Authenticate(ctx context.Context) (string, error)
	// ProcessPayment submits a payment and returns the gateway's response body.
	ProcessPayment(ctx context.Context, req PaymentRequest) (json.RawMessage, error)
}
