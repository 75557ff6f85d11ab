package handler

import (
	"encoding/json"
	"net/http"

	"github.com/AlexZinkM/eos-wallet/eos"
	"github.com/AlexZinkM/eos-wallet/internal/apperr"
	"github.com/AlexZinkM/eos-wallet/internal/model"
	"github.com/AlexZinkM/eos-wallet/internal/session"

	"github.com/rs/zerolog/log"
)

// EOSHandler serves the wallet workflows over HTTP
type EOSHandler struct {
	service  *eos.Service
	rates    eos.RateSource
	currency string
}

// NewEOSHandler creates a new EOSHandler. rates may be nil.
func NewEOSHandler(service *eos.Service, rates eos.RateSource, currency string) *EOSHandler {
	return &EOSHandler{
		service:  service,
		rates:    rates,
		currency: currency,
	}
}

// Login handles POST /eos/login
// @Summary      Log in with an existing account
// @Description  Checks that the private key controls the account's active permission, stores the credential and refreshes the balance
// @Tags         eos
// @Accept       json
// @Produce      json
// @Param        request  body      model.LoginRequest  true  "Account credential"
// @Success      200      {object}  model.LoginResponse
// @Failure      400      {object}  model.ErrorResponse
// @Failure      403      {object}  model.ErrorResponse
// @Router       /eos/login [post]
func (h *EOSHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.Wrap(apperr.KindInvalidInput, err, "invalid request body"))
		return
	}
	if req.AccountName == "" || req.PrivateKey == "" {
		writeError(w, apperr.New(apperr.KindInvalidInput, "account name and private key are required"))
		return
	}

	log.Info().Str("account", req.AccountName).Msg("login started")
	defer log.Info().Str("account", req.AccountName).Msg("login finished")

	if err := h.service.Register(r.Context(), req.AccountName, req.PrivateKey); err != nil {
		writeError(w, err)
		return
	}

	balance, err := h.service.GetBalance(r.Context())
	if err != nil {
		log.Warn().Err(err).Msg("failed to refresh balance after login")
	}

	rec, _ := h.service.Session().Get(session.EOSData)
	writeJSON(w, http.StatusOK, model.LoginResponse{
		AccountName: rec.Data.Address,
		PublicKey:   rec.Data.ActivePublicKey,
		Balance:     balance,
	})
}

// NewAccount handles POST /eos/new-account
// @Summary      Generate a new account
// @Description  Generates a key pair, derives the account name and logs in with it. The account must be activated before use.
// @Tags         eos
// @Produce      json
// @Success      200  {object}  model.NewAccountResponse
// @Router       /eos/new-account [post]
func (h *EOSHandler) NewAccount(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	resp, err := h.service.LoginWithNewAccount(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Logout handles POST /eos/logout
// @Summary      Log out
// @Tags         eos
// @Success      204
// @Router       /eos/logout [post]
func (h *EOSHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	h.service.Logout()
	w.WriteHeader(http.StatusNoContent)
}

// Session handles GET /eos/session
// @Summary      Current session
// @Tags         eos
// @Produce      json
// @Success      200  {object}  model.SessionResponse
// @Router       /eos/session [get]
func (h *EOSHandler) Session(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	sess := h.service.Session()
	rec, _ := sess.Get(session.EOSData)

	activated, err := h.service.IsActivated(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.SessionResponse{
		AccountName: rec.Data.Address,
		PublicKey:   rec.Data.ActivePublicKey,
		Balance:     rec.Balance,
		Activated:   activated,
		BTCAddress:  sess.Address(session.BTCData),
	})
}

// GetBalance handles GET /eos/balance
// @Summary      Get account balance
// @Description  Gets the token balance of the logged-in account with its fiat value
// @Tags         eos
// @Produce      json
// @Success      200  {object}  model.EOSBalanceResponse
// @Router       /eos/balance [get]
func (h *EOSHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	balance, err := h.service.BalanceReport(r.Context(), h.rates, h.currency)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, balance)
}

// Transfer handles POST /eos/transfer
// @Summary      Send tokens
// @Description  Transfers tokens from the logged-in account
// @Tags         eos
// @Accept       json
// @Produce      json
// @Param        request  body      model.TransferRequest  true  "Transfer data"
// @Success      200      {object}  model.TransferResponse
// @Failure      401      {object}  model.ErrorResponse
// @Router       /eos/transfer [post]
func (h *EOSHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.Wrap(apperr.KindInvalidInput, err, "invalid request body"))
		return
	}
	if req.To == "" || req.Amount == "" {
		writeError(w, apperr.New(apperr.KindInvalidInput, "recipient and amount are required"))
		return
	}

	txID, err := h.service.Transfer(r.Context(), req.To, req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}
	if txID == "" {
		writeError(w, apperr.New(apperr.KindNoSession, "not logged in"))
		return
	}
	writeJSON(w, http.StatusOK, model.TransferResponse{TxID: txID})
}

// ActivationInfo handles GET /eos/activation
// @Summary      Activation price and status
// @Tags         eos
// @Produce      json
// @Success      200  {object}  model.ActivationInfoResponse
// @Router       /eos/activation [get]
func (h *EOSHandler) ActivationInfo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	info, err := h.service.ActivationInfo(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// BuyAccount handles POST /eos/buy-account
// @Summary      Activate the stored account
// @Description  Pays the activation price in BTC (once) and registers the account on chain
// @Tags         eos
// @Produce      json
// @Success      200  {object}  model.ActivationResponse
// @Failure      401  {object}  model.ErrorResponse
// @Router       /eos/buy-account [post]
func (h *EOSHandler) BuyAccount(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	log.Info().Msg("activation started")
	defer log.Info().Msg("activation finished")

	resp, err := h.service.BuyAccount(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// BTCLogin handles POST /btc/login
// @Summary      Log in the bitcoin wallet used for activation
// @Tags         btc
// @Accept       json
// @Produce      json
// @Param        request  body      model.BTCLoginRequest  true  "WIF private key"
// @Success      200      {object}  model.BTCLoginResponse
// @Router       /btc/login [post]
func (h *EOSHandler) BTCLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.BTCLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PrivateKey == "" {
		writeError(w, apperr.New(apperr.KindInvalidInput, "private key is required"))
		return
	}

	address, err := h.service.LoginBitcoin(r.Context(), req.PrivateKey)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, model.BTCLoginResponse{Address: address})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError answers with the user-facing message; the full error only goes to the log
func writeError(w http.ResponseWriter, err error) {
	kind := apperr.KindOf(err)
	if kind == apperr.KindInternal || kind == apperr.KindNetworkFailure {
		log.Error().Err(err).Msg("request failed")
	} else {
		log.Warn().Err(err).Msg("request rejected")
	}
	writeJSON(w, statusOf(kind), model.ErrorResponse{
		Error: apperr.UserMessage(err),
		Code:  kind.String(),
	})
}

func statusOf(kind apperr.Kind) int {
	switch kind {
	case apperr.KindInvalidInput:
		return http.StatusBadRequest
	case apperr.KindNoSession:
		return http.StatusUnauthorized
	case apperr.KindKeyMismatch:
		return http.StatusForbidden
	case apperr.KindAccountNotFound:
		return http.StatusNotFound
	case apperr.KindPaymentAlreadyMade:
		return http.StatusConflict
	case apperr.KindNetworkFailure:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
