package notifications

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/craftconnect/authsvc/domain"
)

// TwilioServiceImpl implements domain.NotificationService. Delivery runs
// under an explicit timeout so a slow provider cannot hang the request.
type TwilioServiceImpl struct {
	client     *twilio.RestClient
	fromNumber string
	timeout    time.Duration
}

// NewTwilioService creates a new Twilio notification service.
func NewTwilioService(accountSID, authToken, fromNumber string, timeout time.Duration) domain.NotificationService {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &TwilioServiceImpl{
		client:     client,
		fromNumber: fromNumber,
		timeout:    timeout,
	}
}

// SendSMS implements domain.NotificationService.
func (t *TwilioServiceImpl) SendSMS(ctx context.Context, to, message string) error {
	// If credentials are not configured, log instead of sending.
	if t.fromNumber == "" {
		log.Printf("MOCK_SMS: to=%s message=%q", domain.MaskPhone(to), message)
		return nil
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(t.fromNumber)
	params.SetBody(message)

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		_, err := t.client.Api.CreateMessage(params)
		done <- err
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("%w: sms delivery timed out", domain.ErrProviderUnavailable)
	case err := <-done:
		if err != nil {
			return fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
		}
		return nil
	}
}
