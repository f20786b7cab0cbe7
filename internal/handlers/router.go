package handlers

import (
	"context"
	"net/http"

	"github.com/nkiryanov/loyaltypoints/internal/handlers/middleware"
	"github.com/nkiryanov/loyaltypoints/internal/logger"
	"github.com/nkiryanov/loyaltypoints/internal/models"
	"github.com/nkiryanov/loyaltypoints/internal/service/ledger"
	"github.com/nkiryanov/loyaltypoints/internal/service/wallet"
)

// chain applies middlewares in the given order: m1(m2(...(h)))
func chain(h http.Handler, mds ...func(next http.Handler) http.Handler) http.Handler {
	for i := len(mds) - 1; i >= 0; i-- {
		h = mds[i](h)
	}
	return h
}

func NewRouter(
	verifier verifier,
	calc pointsCalculator,
	ledgerService ledgerService,
	walletService walletService,
	logger logger.Logger,
) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("POST /events/purchase-completed", handlePurchaseCompleted(verifier, calc, ledgerService, logger))
	mux.Handle("GET /wallet/by-email", handleWalletByEmail(walletService, logger))

	handler := chain(mux,
		middleware.LoggerMiddleware(logger),
		middleware.CORSMiddleware(),
	)

	return handler
}

type verifier interface {
	// Report whether signature is a valid digest of the raw body
	Verify(body []byte, signature string) bool
}

type pointsCalculator interface {
	// Convert the order total to a point award
	Points(amount string) int64
}

type ledgerService interface {
	// Award points for a completed purchase
	// Has to return apperrors.ErrEventAlreadyApplied on order redelivery
	ApplyPurchase(ctx context.Context, arg ledger.ApplyPurchaseParams) (models.Balance, error)
}

type walletService interface {
	GetByEmail(ctx context.Context, email string) (wallet.Wallet, error)
}
