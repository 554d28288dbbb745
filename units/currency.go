package units

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hazyhaar/morph/sanitize"
)

// ErrRateLookup is returned when the exchange rate provider cannot be
// reached or answers with a non-200 status.
var ErrRateLookup = errors.New("units: failed to fetch exchange rates")

// ErrUnknownCurrency is returned when the provider's response carries no
// rate for the requested target currency.
var ErrUnknownCurrency = errors.New("units: invalid currency code")

// CurrencyConfig configures a CurrencyConverter. Zero values fall back to
// defaults().
type CurrencyConfig struct {
	// BaseURL of the Frankfurter-compatible rate API.
	BaseURL string
	// HTTPClient used for rate lookups.
	HTTPClient *http.Client
}

func (c *CurrencyConfig) defaults() {
	if c.BaseURL == "" {
		c.BaseURL = "https://api.frankfurter.app"
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}
}

// CurrencyConverter converts amounts between currencies using live rates
// from a Frankfurter-compatible API.
type CurrencyConverter struct {
	cfg CurrencyConfig
}

// NewCurrencyConverter builds a converter from cfg.
func NewCurrencyConverter(cfg CurrencyConfig) *CurrencyConverter {
	cfg.defaults()
	return &CurrencyConverter{cfg: cfg}
}

// Convert returns amount expressed in the target currency. Currency codes
// are uppercased before the lookup (ISO 4217).
func (c *CurrencyConverter) Convert(ctx context.Context, amount float64, from, to string) (float64, error) {
	from = strings.ToUpper(strings.TrimSpace(from))
	to = strings.ToUpper(strings.TrimSpace(to))

	u := c.cfg.BaseURL + "/latest?" + url.Values{
		"amount": {strconv.FormatFloat(amount, 'f', -1, 64)},
		"from":   {from},
		"to":     {to},
	}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRateLookup, err)
	}

	resp, err := c.cfg.HTTPClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRateLookup, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%w: status %d", ErrRateLookup, resp.StatusCode)
	}

	body, err := sanitize.LimitedReadAll(resp.Body, sanitize.MaxResponseBody)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRateLookup, err)
	}

	var payload struct {
		Rates map[string]float64 `json:"rates"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRateLookup, err)
	}

	rate, ok := payload.Rates[to]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownCurrency, to)
	}
	return rate, nil
}
