package services_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	libsmtp "github.com/gambiamarkets/price-tracker/internal/lib/smtp"
	"github.com/gambiamarkets/price-tracker/internal/models"
	services "github.com/gambiamarkets/price-tracker/internal/services/sender"
)

// fakeClient записывает SMTP-диалог вместо отправки.
type fakeClient struct {
	from    string
	rcpts   []string
	body    bytes.Buffer
	mailErr error
	quit    bool
}

type nopWriteCloser struct{ *bytes.Buffer }

func (nopWriteCloser) Close() error { return nil }

func (c *fakeClient) Mail(from string) error {
	if c.mailErr != nil {
		return c.mailErr
	}
	c.from = from
	return nil
}

func (c *fakeClient) Rcpt(to string) error {
	c.rcpts = append(c.rcpts, to)
	return nil
}

func (c *fakeClient) Data() (io.WriteCloser, error) {
	return nopWriteCloser{&c.body}, nil
}

func (c *fakeClient) Quit() error {
	c.quit = true
	return nil
}

func (c *fakeClient) Close() error { return nil }

type fakeTransport struct {
	client     *fakeClient
	connectErr error
}

func (t *fakeTransport) Connect() (libsmtp.Client, error) {
	if t.connectErr != nil {
		return nil, t.connectErr
	}
	return t.client, nil
}

func (t *fakeTransport) GetSMTPUser() string { return "noreply@pricetracker.local" }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func marshalEvent(t *testing.T, event models.ReviewEvent) []byte {
	body, err := json.Marshal(event)
	require.NoError(t, err)
	return body
}

func TestHandleReviewedEvent_Approved(t *testing.T) {
	client := &fakeClient{}
	svc := services.NewSenderService(discardLogger(), &fakeTransport{client: client})

	body := marshalEvent(t, models.ReviewEvent{
		SubmissionUID: "submission-uid",
		Status:        models.StatusApproved,
		ProductName:   "Tomatoes",
		MarketName:    "Serrekunda Market",
		Price:         45.5,
		Unit:          "kg",
		SubmitterName: "Awa Ceesay",
		Email:         "awa@example.com",
	})

	err := svc.HandleReviewedEvent(body)
	require.NoError(t, err)

	assert.Equal(t, "noreply@pricetracker.local", client.from)
	assert.Equal(t, []string{"awa@example.com"}, client.rcpts)
	assert.Contains(t, client.body.String(), "approved")
	assert.Contains(t, client.body.String(), "Tomatoes")
	assert.Contains(t, client.body.String(), "Serrekunda Market")
	assert.True(t, client.quit)
}

func TestHandleReviewedEvent_RejectedWithReason(t *testing.T) {
	client := &fakeClient{}
	svc := services.NewSenderService(discardLogger(), &fakeTransport{client: client})

	body := marshalEvent(t, models.ReviewEvent{
		SubmissionUID: "submission-uid",
		Status:        models.StatusRejected,
		ProductName:   "Tomatoes",
		MarketName:    "Serrekunda Market",
		Price:         450,
		Unit:          "kg",
		Reason:        "price looks implausible",
		SubmitterName: "Awa Ceesay",
		Email:         "awa@example.com",
	})

	err := svc.HandleReviewedEvent(body)
	require.NoError(t, err)

	assert.Contains(t, client.body.String(), "rejected")
	assert.Contains(t, client.body.String(), "Reason: price looks implausible")
}

func TestHandleReviewedEvent_UnexpectedStatusSkipped(t *testing.T) {
	client := &fakeClient{}
	svc := services.NewSenderService(discardLogger(), &fakeTransport{client: client})

	body := marshalEvent(t, models.ReviewEvent{
		SubmissionUID: "submission-uid",
		Status:        models.StatusPending,
		Email:         "awa@example.com",
	})

	// Необработанный статус не считается ошибкой, но письмо не отправляется.
	err := svc.HandleReviewedEvent(body)
	require.NoError(t, err)
	assert.Empty(t, client.rcpts)
}

func TestHandleReviewedEvent_BadPayload(t *testing.T) {
	svc := services.NewSenderService(discardLogger(), &fakeTransport{client: &fakeClient{}})

	err := svc.HandleReviewedEvent([]byte("not-json"))
	assert.Error(t, err)
}

func TestHandleReviewedEvent_ConnectError(t *testing.T) {
	svc := services.NewSenderService(discardLogger(), &fakeTransport{connectErr: errors.New("dial failed")})

	body := marshalEvent(t, models.ReviewEvent{
		Status: models.StatusApproved,
		Email:  "awa@example.com",
	})

	err := svc.HandleReviewedEvent(body)
	assert.Error(t, err)
}
