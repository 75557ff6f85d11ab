package api

import (
	"net/http"

	_ "github.com/AlexZinkM/eos-wallet/docs"
	"github.com/AlexZinkM/eos-wallet/eos"
	"github.com/AlexZinkM/eos-wallet/internal/handler"

	httpSwagger "github.com/swaggo/http-swagger"
)

// SetupRouter sets up router with handlers
func SetupRouter(service *eos.Service, rates eos.RateSource, currency string) http.Handler {
	eosHandler := handler.NewEOSHandler(service, rates, currency)

	mux := http.NewServeMux()

	// Swagger UI
	mux.HandleFunc("/swagger/", httpSwagger.WrapHandler)

	// EOS endpoints
	mux.HandleFunc("/eos/login", eosHandler.Login)
	mux.HandleFunc("/eos/new-account", eosHandler.NewAccount)
	mux.HandleFunc("/eos/logout", eosHandler.Logout)
	mux.HandleFunc("/eos/session", eosHandler.Session)
	mux.HandleFunc("/eos/balance", eosHandler.GetBalance)
	mux.HandleFunc("/eos/transfer", eosHandler.Transfer)
	mux.HandleFunc("/eos/activation", eosHandler.ActivationInfo)
	mux.HandleFunc("/eos/buy-account", eosHandler.BuyAccount)

	// Bitcoin endpoints
	mux.HandleFunc("/btc/login", eosHandler.BTCLogin)

	return mux
}
