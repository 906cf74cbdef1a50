package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"wakacjecypr/internal/domain"
	"wakacjecypr/internal/domain/models"
	"wakacjecypr/internal/utils"
)

// BookingClient posts finished bookings to the booking endpoint.
type BookingClient struct {
	Endpoint string
	HTTP     *http.Client
}

func NewBookingClient(endpoint string, timeout time.Duration) *BookingClient {
	return &BookingClient{
		Endpoint: endpoint,
		HTTP:     &http.Client{Timeout: timeout},
	}
}

type bookingResponse struct {
	Reference  string `json:"reference"`
	PaymentURL string `json:"paymentUrl"`
	Error      string `json:"error"`
}

func (c *BookingClient) Submit(ctx context.Context, req models.BookingRequest) (models.BookingConfirmation, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return models.BookingConfirmation{}, domain.SubmissionError{Msg: "encode request", Err: err}
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return models.BookingConfirmation{}, domain.SubmissionError{Msg: "build request", Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	rid := utils.RequestIDFrom(ctx)
	if rid != "" {
		httpReq.Header.Set("X-Request-ID", rid)
	}

	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(httpReq)
	if err != nil {
		utils.LogFailure(rid, "booking_client", "submit", err)
		return models.BookingConfirmation{}, domain.SubmissionError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return models.BookingConfirmation{}, domain.SubmissionError{Status: resp.StatusCode, Err: err}
	}

	var out bookingResponse
	decodeErr := json.Unmarshal(raw, &out)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := strings.TrimSpace(out.Error)
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		err := domain.SubmissionError{Status: resp.StatusCode, Msg: msg}
		utils.LogFailure(rid, "booking_client", "submit", err)
		return models.BookingConfirmation{}, err
	}
	if decodeErr != nil {
		return models.BookingConfirmation{}, domain.SubmissionError{Status: resp.StatusCode, Msg: "invalid response", Err: decodeErr}
	}
	if out.Reference == "" {
		return models.BookingConfirmation{}, domain.SubmissionError{Status: resp.StatusCode, Msg: "response has no reference"}
	}

	utils.LogEvent(rid, "booking_client", "submit", fmt.Sprintf("booking %s confirmed", out.Reference))
	return models.BookingConfirmation{Reference: out.Reference, PaymentURL: out.PaymentURL}, nil
}
