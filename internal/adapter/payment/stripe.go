// Package payment talks to a Stripe-compatible payment intents API.
package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/rl1809/storefront/internal/port"
)

const DefaultBaseURL = "https://api.stripe.com"

type Client struct {
	baseURL   string
	secretKey string
	http      *http.Client
}

func NewClient(baseURL, secretKey string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		secretKey: secretKey,
		http:      &http.Client{Timeout: timeout},
	}
}

type intentResponse struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Error        *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) CreateIntent(ctx context.Context, amount int64, currency string) (port.PaymentIntent, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amount, 10))
	form.Set("currency", strings.ToLower(currency))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/payment_intents", strings.NewReader(form.Encode()))
	if err != nil {
		return port.PaymentIntent{}, errors.Wrap(err, "build payment intent request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Idempotency-Key", uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return port.PaymentIntent{}, errors.Wrap(err, "send payment intent request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return port.PaymentIntent{}, errors.Wrap(err, "read payment intent response")
	}

	var out intentResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return port.PaymentIntent{}, errors.Wrapf(err, "decode payment intent response (status %d)", resp.StatusCode)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		msg := http.StatusText(resp.StatusCode)
		if out.Error != nil && out.Error.Message != "" {
			msg = out.Error.Message
		}
		return port.PaymentIntent{}, fmt.Errorf("payment gateway: %d %s", resp.StatusCode, msg)
	}

	return port.PaymentIntent{ID: out.ID, ClientSecret: out.ClientSecret}, nil
}

// Offline issues intents locally. Used when no secret key is configured.
type Offline struct{}

func (Offline) CreateIntent(_ context.Context, amount int64, currency string) (port.PaymentIntent, error) {
	id := "pi_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	return port.PaymentIntent{
		ID:           id,
		ClientSecret: fmt.Sprintf("%s_secret_%d%s", id, amount, strings.ToLower(currency)),
	}, nil
}
