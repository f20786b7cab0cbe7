package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/nkiryanov/loyaltypoints/internal/apperrors"
	"github.com/nkiryanov/loyaltypoints/internal/handlers/render"
	"github.com/nkiryanov/loyaltypoints/internal/logger"
	"github.com/nkiryanov/loyaltypoints/internal/service/event"
	"github.com/nkiryanov/loyaltypoints/internal/service/ledger"
)

// Header with base64 HMAC-SHA256 of the raw request body
const signatureHeader = "X-Signature"

const maxEventBodySize = 1 << 20 // 1MB

func handlePurchaseCompleted(verifier verifier, calc pointsCalculator, ledgerService ledgerService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The digest is computed over the bytes as sent, so the body must be
		// captured raw before any parsing
		r.Body = http.MaxBytesReader(w, r.Body, maxEventBodySize)
		body, err := io.ReadAll(r.Body)
		if err != nil {
			render.Text(w, "Server error", http.StatusInternalServerError)
			return
		}

		if !verifier.Verify(body, r.Header.Get(signatureHeader)) {
			render.Text(w, "Invalid signature", http.StatusUnauthorized)
			return
		}

		purchase, err := event.ParsePurchase(body)
		switch {
		case errors.Is(err, apperrors.ErrNoCustomer):
			// Nobody to award points to, not a failure
			render.Text(w, "No customer", http.StatusOK)
			return
		case err != nil:
			l.Error("Failed to parse purchase event", "error", err)
			render.Text(w, "Server error", http.StatusInternalServerError)
			return
		}

		balance, err := ledgerService.ApplyPurchase(r.Context(), applyParams(purchase, calc.Points(purchase.TotalPrice)))

		switch {
		case err == nil:
			l.Info("Purchase applied",
				"order", purchase.OrderID,
				"customer", purchase.CustomerID,
				"points", balance.Current,
			)
			render.Text(w, "OK", http.StatusOK)
		case errors.Is(err, apperrors.ErrEventAlreadyApplied):
			// Upstream redelivered the event, the award is in place already
			l.Info("Purchase event redelivered", "order", purchase.OrderID)
			render.Text(w, "OK", http.StatusOK)
		default:
			l.Error("Failed to apply purchase", "order", purchase.OrderID, "error", err)
			render.Text(w, "Server error", http.StatusInternalServerError)
		}
	})
}

func applyParams(p event.Purchase, points int64) ledger.ApplyPurchaseParams {
	return ledger.ApplyPurchaseParams{
		CustomerID: p.CustomerID,
		Email:      p.Email,
		Name:       p.FullName(),
		OrderID:    p.OrderID,
		Points:     points,
	}
}
