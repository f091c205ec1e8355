package payment

import (
	"context"
	"encoding/json"
	"time"

	"jenga-relay/internal/config"
)

// Receipt is the outcome of a submitted donation
type Receipt struct {
	OrderReference string
	Response       json.RawMessage // gateway body, passed through untouched
}

// DonationService runs the authenticate, sign and submit sequence for one donation.
type DonationService struct {
	gateway Gateway
	signer  Signer
	cfg     *config.Config
	now     func() time.Time
}

// NewDonationService creates a DonationService
func NewDonationService(gw Gateway, cfg *config.Config) *DonationService {
	return &DonationService{
		gateway: gw,
		signer:  Signer{MerchantCode: cfg.MerchantCode, CallbackURL: cfg.CallbackURL},
		cfg:     cfg,
		now:     time.Now,
	}
}

// WithClock replaces the time source used for order references.
func (s *DonationService) WithClock(now func() time.Time) *DonationService {
	s.now = now
	return s
}

// Signer returns the signer shared with callback verification.
func (s *DonationService) Signer() Signer {
	return s.signer
}

// Donate authenticates with the gateway and submits one payment. Each step
// depends on the previous one; the first failure is returned as is. A
// missing donor name fails after authentication and before any payment.
func (s *DonationService) Donate(ctx context.Context, req DonationRequest) (*Receipt, error) {
	token, err := s.gateway.Authenticate(ctx)
	if err != nil {
		return nil, err
	}

	if req.DonorName == "" {
		return nil, &Error{Kind: KindInput, Op: "donate", Err: ErrNoDonorName}
	}

	orderRef := NewOrderReference(s.now())
	first, last := SplitName(req.DonorName)

	body, err := s.gateway.ProcessPayment(ctx, PaymentRequest{
		Token:                 token,
		MerchantCode:          s.cfg.MerchantCode,
		Currency:              Currency,
		OrderAmount:           req.Amount,
		OrderReference:        orderRef,
		ProductType:           s.cfg.ProductType,
		ProductDescription:    s.cfg.ProductDescription,
		PaymentTimeLimit:      s.cfg.PaymentTimeLimit,
		CustomerFirstName:     first,
		CustomerLastName:      last,
		CustomerPostalCodeZip: s.cfg.PostalCode,
		CustomerAddress:       s.cfg.Address,
		CustomerEmail:         s.cfg.Email,
		CustomerPhone:         req.DonorPhone,
		CallbackURL:           s.cfg.CallbackURL,
		CountryCode:           s.cfg.CountryCode,
		SecondaryReference:    s.cfg.SecondaryReference,
		Signature:             s.signer.Sign(orderRef, req.Amount.String()),
	})
	if err != nil {
		return nil, err
	}

	return &Receipt{OrderReference: orderRef, Response: body}, nil
}
