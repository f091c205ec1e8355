package jenga

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"jenga-relay/internal/config"
	"jenga-relay/internal/payment"
)

const (
	authPath    = "/authentication/api/v3/authenticate/merchant"
	processPath = "/processPayment"

	// maxErrorBody caps how much of a failed response is quoted in the error.
	maxErrorBody = 512
)

// JengaGateway talks to the Jenga authentication and payment endpoints
type JengaGateway struct {
	cfg    *config.Config
	client *http.Client
}

// New creates a gateway client. A nil client gets one with cfg.UpstreamTimeout.
func New(cfg *config.Config, client *http.Client) *JengaGateway {
	if client == nil {
		client = &http.Client{Timeout: cfg.UpstreamTimeout}
	}
	return &JengaGateway{cfg: cfg, client: client}
}

type authRequest struct {
	MerchantCode   string `json:"merchantCode"`
	ConsumerSecret string `json:"consumerSecret"`
}

type authResponse struct {
	AccessToken string `json:"accessToken"`
}

// Authenticate exchanges the merchant code and consumer secret for an access token.
func (g *JengaGateway) Authenticate(ctx context.Context) (string, error) {
	const op = "authenticate"

	headers := map[string]string{"Api-Key": g.cfg.APIKey}
	body, status, err := g.post(ctx, g.cfg.AuthURL+authPath, authRequest{
		MerchantCode:   g.cfg.MerchantCode,
		ConsumerSecret: g.cfg.ConsumerSecret,
	}, headers)
	if err != nil {
		return "", &payment.Error{Kind: payment.KindTransport, Op: op, Err: err}
	}
	if !success(status) {
		return "", &payment.Error{Kind: payment.KindAuth, Op: op, Status: status, Err: statusError(status, body)}
	}

	var res authResponse
	if !jsoniter.Valid(body) {
		return "", &payment.Error{Kind: payment.KindDecode, Op: op, Status: status, Err: errors.New("decode response: body is not valid JSON")}
	}
	if err := jsoniter.Unmarshal(body, &res); err != nil {
		return "", &payment.Error{Kind: payment.KindDecode, Op: op, Status: status, Err: fmt.Errorf("decode response: %w", err)}
	}
	if res.AccessToken == "" {
		return "", &payment.Error{Kind: payment.KindAuth, Op: op, Status: status, Err: payment.ErrNoToken}
	}
	return res.AccessToken, nil
}

// ProcessPayment submits the payment and returns the response body.
// A body that is not JSON is returned as a JSON string.
func (g *JengaGateway) ProcessPayment(ctx context.Context, req payment.PaymentRequest) (json.RawMessage, error) {
	const op = "process payment"

	body, status, err := g.post(ctx, g.cfg.GatewayURL+processPath, req, nil)
	if err != nil {
		return nil, &payment.Error{Kind: payment.KindTransport, Op: op, Err: err}
	}
	if !success(status) {
		return nil, &payment.Error{Kind: payment.KindRejected, Op: op, Status: status, Err: statusError(status, body)}
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return json.RawMessage("null"), nil
	}
	if jsoniter.Valid(body) {
		return json.RawMessage(body), nil
	}
	quoted, err := jsoniter.Marshal(string(body))
	if err != nil {
		return nil, &payment.Error{Kind: payment.KindDecode, Op: op, Status: status, Err: err}
	}
	return quoted, nil
}

func (g *JengaGateway) post(ctx context.Context, url string, payload interface{}, headers map[string]string) ([]byte, int, error) {
	jsonPayload, err := jsoniter.Marshal(payload)
	if err != nil {
		return nil, 0, fmt.Errorf("encode request: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonPayload))
	if err != nil {
		return nil, 0, err
	}
	request.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		request.Header.Set(k, v)
	}

	resp, err := g.client.Do(request)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read response: %w", err)
	}
	return body, resp.StatusCode, nil
}

func success(status int) bool {
	return status >= 200 && status < 300
}

func statusError(status int, body []byte) error {
	snippet := bytes.TrimSpace(body)
	if len(snippet) > maxErrorBody {
		snippet = snippet[:maxErrorBody]
	}
	if len(snippet) == 0 {
		return fmt.Errorf("gateway returned status %d", status)
	}
	return fmt.Errorf("gateway returned status %d: %s", status, snippet)
}
