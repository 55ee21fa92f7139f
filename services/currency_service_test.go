package services

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"travel-server/store"
)

func TestRateCaching(t *testing.T) {
	ctx := context.Background()
	calls := 0
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.URL.Path != "/USD" {
			t.Errorf("upstream path = %q, want /USD", r.URL.Path)
		}
		fmt.Fprint(w, `{"result":"success","rates":{"EUR":0.5,"GBP":0.8}}`)
	}))
	defer upstream.Close()

	svc := NewCurrencyService(store.NewMemoryStore(), upstream.URL)

	rate, ok := svc.Rate(ctx, "USD", "EUR")
	if !ok || rate != 0.5 {
		t.Fatalf("Rate() = %v, %v; want 0.5, true", rate, ok)
	}

	// Second lookup is served from the cache.
	rate, ok = svc.Rate(ctx, "USD", "EUR")
	if !ok || rate != 0.5 {
		t.Fatalf("cached Rate() = %v, %v; want 0.5, true", rate, ok)
	}
	if calls != 1 {
		t.Errorf("upstream calls = %d, want 1 (second hit cached)", calls)
	}
}

func TestRateFailsSoft(t *testing.T) {
	ctx := context.Background()
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer upstream.Close()

	svc := NewCurrencyService(store.NewMemoryStore(), upstream.URL)
	if _, ok := svc.Rate(ctx, "USD", "EUR"); ok {
		t.Error("Rate() ok = true on upstream failure, want fail-soft false")
	}

	// Unknown target currency in an otherwise good response also fails soft.
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"result":"success","rates":{"EUR":0.5}}`)
	}))
	defer good.Close()
	svc = NewCurrencyService(store.NewMemoryStore(), good.URL)
	if _, ok := svc.Rate(ctx, "USD", "XXX"); ok {
		t.Error("Rate() ok = true for unknown currency, want false")
	}
}

func TestConvert(t *testing.T) {
	ctx := context.Background()
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"result":"success","rates":{"EUR":0.8567}}`)
	}))
	defer upstream.Close()

	svc := NewCurrencyService(store.NewMemoryStore(), upstream.URL)
	rate, converted, ok := svc.Convert(ctx, "USD", "EUR", 100)
	if !ok {
		t.Fatal("Convert() ok = false")
	}
	if rate != 0.8567 {
		t.Errorf("rate = %v, want 0.8567", rate)
	}
	if converted != 85.67 {
		t.Errorf("converted = %v, want 85.67 (rounded to 2 decimals)", converted)
	}
}

func TestTranslate(t *testing.T) {
	svc := NewTranslateService()

	got, err := svc.Translate("Thank You", "fr")
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	if got != "Merci" {
		t.Errorf("Translate(thank you, fr) = %q, want Merci", got)
	}

	if _, err := svc.Translate("thank you", "xx"); err == nil {
		t.Error("Translate() unknown language succeeded, want 404")
	}
	if _, err := svc.Translate("gibberish", "fr"); err == nil {
		t.Error("Translate() unknown phrase succeeded, want 404")
	}
}
