package handlers

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/nkiryanov/loyaltypoints/internal/logger"
	"github.com/nkiryanov/loyaltypoints/internal/repository/postgres"
	"github.com/nkiryanov/loyaltypoints/internal/service/ledger"
	"github.com/nkiryanov/loyaltypoints/internal/service/points"
	"github.com/nkiryanov/loyaltypoints/internal/service/signature"
	"github.com/nkiryanov/loyaltypoints/internal/service/wallet"
	"github.com/nkiryanov/loyaltypoints/internal/testutil"
)

func Test_WalletHandler(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	withServer := func(t *testing.T, fn func(url string, ledgerService *ledger.LedgerService)) {
		testutil.InTx(pg.Pool, t, func(tx pgx.Tx) {
			storage := postgres.NewStorage(tx)
			ledgerService := ledger.NewService(storage)

			mux := NewRouter(
				signature.NewVerifier(testSecret),
				points.NewCalculator(decimal.NewFromInt(3)),
				ledgerService,
				wallet.NewService(storage),
				logger.NewNoOpLogger(),
			)
			srv := httptest.NewServer(mux)
			defer srv.Close()

			fn(srv.URL, ledgerService)
		})
	}

	get := func(t *testing.T, baseURL string, email string) (*http.Response, string) {
		resp, err := http.Get(baseURL + "/wallet/by-email?email=" + url.QueryEscape(email))
		require.NoError(t, err)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		return resp, string(body)
	}

	t.Run("wallet with points", func(t *testing.T) {
		withServer(t, func(url string, ledgerService *ledger.LedgerService) {
			_, err := ledgerService.ApplyPurchase(t.Context(), ledger.ApplyPurchaseParams{
				CustomerID: "C1",
				Email:      "jane@example.com",
				Name:       "Jane Doe",
				OrderID:    "O1",
				Points:     45,
			})
			require.NoError(t, err)

			resp, body := get(t, url, "jane@example.com")

			require.Equal(t, http.StatusOK, resp.StatusCode)
			require.JSONEq(t, `
				{
					"success": true,
					"email": "jane@example.com",
					"name": "Jane Doe",
					"hasWallet": true,
					"points": 45,
					"lifetime_points": 45
				}`, body)
		})
	})

	t.Run("unknown email", func(t *testing.T) {
		withServer(t, func(url string, _ *ledger.LedgerService) {
			resp, body := get(t, url, "nobody@example.com")

			require.Equal(t, http.StatusOK, resp.StatusCode)
			require.JSONEq(t, `
				{
					"success": true,
					"email": "nobody@example.com",
					"name": "",
					"hasWallet": false,
					"points": 0,
					"lifetime_points": 0
				}`, body)
		})
	})

	t.Run("bad email", func(t *testing.T) {
		withServer(t, func(url string, _ *ledger.LedgerService) {
			tests := []struct {
				name  string
				email string
			}{
				{"empty", ""},
				{"not an email", "not-an-email"},
			}

			for _, tt := range tests {
				t.Run(tt.name, func(t *testing.T) {
					resp, body := get(t, url, tt.email)

					require.Equal(t, http.StatusBadRequest, resp.StatusCode)
					require.JSONEq(t, `
						{
							"success": false,
							"message": "Valid email is required"
						}`, body)
				})
			}
		})
	})

	t.Run("cors headers set", func(t *testing.T) {
		withServer(t, func(url string, _ *ledger.LedgerService) {
			resp, _ := get(t, url, "nobody@example.com")

			require.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
		})
	})
}
