package handlers

import (
	"encoding/json"
	"net/http"
	"time"
)

// BillingHandler serves placeholder licensing endpoints. There is no real
// billing logic here; the payloads keep the dashboard's plan screens
// working until a payment provider is integrated.
type BillingHandler struct{}

// NewBillingHandler creates a new billing handler.
func NewBillingHandler() *BillingHandler {
	return &BillingHandler{}
}

// Plan returns the current (mock) license plan.
func (h *BillingHandler) Plan(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"plan":      "standard",
		"status":    "active",
		"seats":     10,
		"renews_at": time.Now().AddDate(1, 0, 0).Format("2006-01-02"),
	})
}

// Checkout pretends to start a checkout session.
func (h *BillingHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"checkout_url": "https://billing.example.com/session/mock",
	})
}
