package units

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCurrencyConverter_Convert(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/latest" {
			t.Errorf("path = %q, want /latest", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("amount") != "100" || q.Get("from") != "EUR" || q.Get("to") != "USD" {
			t.Errorf("unexpected query: %v", q)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"amount":100,"base":"EUR","rates":{"USD":108.32}}`))
	}))
	defer srv.Close()

	c := NewCurrencyConverter(CurrencyConfig{BaseURL: srv.URL})
	got, err := c.Convert(context.Background(), 100, "eur", "usd")
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if got != 108.32 {
		t.Errorf("Convert = %v, want 108.32", got)
	}
}

func TestCurrencyConverter_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewCurrencyConverter(CurrencyConfig{BaseURL: srv.URL})
	if _, err := c.Convert(context.Background(), 1, "EUR", "XXX"); !errors.Is(err, ErrRateLookup) {
		t.Errorf("want ErrRateLookup, got %v", err)
	}
}

func TestCurrencyConverter_MissingRate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"rates":{"GBP":0.85}}`))
	}))
	defer srv.Close()

	c := NewCurrencyConverter(CurrencyConfig{BaseURL: srv.URL})
	if _, err := c.Convert(context.Background(), 1, "EUR", "USD"); !errors.Is(err, ErrUnknownCurrency) {
		t.Errorf("want ErrUnknownCurrency, got %v", err)
	}
}

func TestCurrencyConverter_Unreachable(t *testing.T) {
	c := NewCurrencyConverter(CurrencyConfig{BaseURL: "http://127.0.0.1:1"})
	if _, err := c.Convert(context.Background(), 1, "EUR", "USD"); !errors.Is(err, ErrRateLookup) {
		t.Errorf("want ErrRateLookup, got %v", err)
	}
}
