package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"travel-server/middleware"
	"travel-server/services"
	"travel-server/utils/errors"
)

type CurrencyHandler struct {
	currencyService  *services.CurrencyService
	translateService *services.TranslateService
}

func NewCurrencyHandler(currencyService *services.CurrencyService, translateService *services.TranslateService) *CurrencyHandler {
	return &CurrencyHandler{currencyService: currencyService, translateService: translateService}
}

// GetExchangeRate fails soft on upstream errors: the rate comes back null
// instead of a 5xx.
func (h *CurrencyHandler) GetExchangeRate(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from == "" || to == "" {
		middleware.WriteError(w, errors.NewAPIError("MISSING_FIELD", "Both 'from' and 'to' currencies are required", http.StatusBadRequest))
		return
	}

	response := map[string]any{"from": from, "to": to, "rate": nil}
	if rate, ok := h.currencyService.Rate(r.Context(), from, to); ok {
		response["rate"] = rate
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func (h *CurrencyHandler) Convert(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	amount, err := strconv.ParseFloat(r.URL.Query().Get("amount"), 64)
	if from == "" || to == "" || err != nil {
		middleware.WriteError(w, errors.NewAPIError("MISSING_FIELD", "'from', 'to' and a numeric 'amount' are required", http.StatusBadRequest))
		return
	}

	response := map[string]any{
		"from":             from,
		"to":               to,
		"amount":           amount,
		"rate":             nil,
		"converted_amount": nil,
	}
	if rate, converted, ok := h.currencyService.Convert(r.Context(), from, to, amount); ok {
		response["rate"] = rate
		response["converted_amount"] = converted
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func (h *CurrencyHandler) Translate(w http.ResponseWriter, r *http.Request) {
	phrase := r.URL.Query().Get("phrase")
	lang := r.URL.Query().Get("lang")
	if phrase == "" || lang == "" {
		middleware.WriteError(w, errors.NewAPIError("MISSING_FIELD", "Both 'phrase' and 'lang' are required", http.StatusBadRequest))
		return
	}

	translation, err := h.translateService.Translate(phrase, lang)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"phrase":      phrase,
		"lang":        lang,
		"translation": translation,
	})
}
