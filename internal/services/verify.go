package services

import (
	"fmt"
	"log"
	"os"

	"github.com/twilio/twilio-go"
	verify "github.com/twilio/twilio-go/rest/verify/v2"
)

// VerificationService sends SMS verification codes through Twilio Verify.
// It is disabled (all methods no-op) unless TWILIO_VERIFY_SERVICE_SID is
// set alongside the standard TWILIO_ACCOUNT_SID / TWILIO_AUTH_TOKEN pair.
type VerificationService struct {
	client     *twilio.RestClient
	serviceSID string
}

func NewVerificationService() *VerificationService {
	sid := os.Getenv("TWILIO_VERIFY_SERVICE_SID")
	if sid == "" || os.Getenv("TWILIO_ACCOUNT_SID") == "" {
		log.Println("Twilio Verify not configured, SMS verification disabled")
		return &VerificationService{}
	}
	return &VerificationService{
		client:     twilio.NewRestClient(),
		serviceSID: sid,
	}
}

func (s *VerificationService) Enabled() bool {
	return s.client != nil
}

// StartVerification fires an SMS code at the given number.
func (s *VerificationService) StartVerification(phone string) error {
	if !s.Enabled() {
		return nil
	}
	params := &verify.CreateVerificationParams{}
	params.SetTo(phone)
	params.SetChannel("sms")
	if _, err := s.client.VerifyV2.CreateVerification(s.serviceSID, params); err != nil {
		return fmt.Errorf("start verification: %w", err)
	}
	return nil
}

// CheckVerification reports whether the code matches the pending
// verification for the number.
func (s *VerificationService) CheckVerification(phone, code string) (bool, error) {
	if !s.Enabled() {
		return false, fmt.Errorf("verification not configured")
	}
	params := &verify.CreateVerificationCheckParams{}
	params.SetTo(phone)
	params.SetCode(code)
	resp, err := s.client.VerifyV2.CreateVerificationCheck(s.serviceSID, params)
	if err != nil {
		return false, fmt.Errorf("check verification: %w", err)
	}
	return resp.Status != nil && *resp.Status == "approved", nil
}
