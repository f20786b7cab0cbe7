package handlers

import (
	"net/http"

	"github.com/nkiryanov/loyaltypoints/internal/handlers/render"
	"github.com/nkiryanov/loyaltypoints/internal/logger"
)

func handleWalletByEmail(walletService walletService, l logger.Logger) http.Handler {
	type response struct {
		Success        bool   `json:"success"`
		Email          string `json:"email"`
		Name           string `json:"name"`
		HasWallet      bool   `json:"hasWallet"`
		Points         int64  `json:"points"`
		LifetimePoints int64  `json:"lifetime_points"`
	}

	type errResponse struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		email := r.URL.Query().Get("email")
		if !render.ValidEmail(email) {
			render.JSONWithStatus(w, errResponse{Success: false, Message: "Valid email is required"}, http.StatusBadRequest)
			return
		}

		wallet, err := walletService.GetByEmail(r.Context(), email)

		switch err {
		case nil:
			render.JSON(w, response{
				Success:        true,
				Email:          wallet.Email,
				Name:           wallet.Name,
				HasWallet:      wallet.HasWallet,
				Points:         wallet.Points,
				LifetimePoints: wallet.Lifetime,
			})
		default:
			l.Error("Failed to get wallet", "email", email, "error", err)
			render.JSONWithStatus(w, errResponse{Success: false, Message: "Internal server error"}, http.StatusInternalServerError)
		}
	})
}
