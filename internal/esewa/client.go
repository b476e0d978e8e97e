package esewa

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Verifier checks a transaction against the payment gateway.
type Verifier interface {
	VerifyTransaction(ctx context.Context, refID string, amount float64) (bool, error)
}

// Client implements Verifier against the eSewa transaction-record endpoint.
// The endpoint answers an XML-ish body containing Success or Failure.
type Client struct {
	verifyURL string
	merchant  string
	client    *http.Client
}

// NewClient builds a gateway client. merchant is the eSewa merchant code.
func NewClient(verifyURL, merchant string) *Client {
	if verifyURL == "" {
		verifyURL = "https://uat.esewa.com.np/epay/transrec"
	}
	return &Client{
		verifyURL: verifyURL,
		merchant:  merchant,
		client:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) VerifyTransaction(ctx context.Context, refID string, amount float64) (bool, error) {
	form := url.Values{}
	form.Set("scd", c.merchant)
	form.Set("rid", refID)
	form.Set("amt", strconv.FormatFloat(amount, 'f', 2, 64))
	form.Set("pid", refID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.verifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return false, fmt.Errorf("gateway http error: status=%d", resp.StatusCode)
	}

	return strings.Contains(strings.ToLower(string(body)), "success"), nil
}
