package handlers

import (
	"api_recommender/internal/api/middlew"
	"api_recommender/internal/custom_err"
	"api_recommender/internal/models"
	"api_recommender/internal/service"
	"api_recommender/pkg/response"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type WalletHandler struct {
	service service.WalletServicer
}

func NewWalletHandler(service service.WalletServicer) *WalletHandler {
	return &WalletHandler{
		service: service,
	}
}

func (h *WalletHandler) CreateWallet(w http.ResponseWriter, r *http.Request) {
	const op = "handler.CreateWallet"
	log := middlew.GetLogger(r.Context())

	idStr := chi.URLParam(r, "userID")
	userID, err := uuid.Parse(idStr)
	if err != nil {
		log.Warn("невалидный UUID", slog.String("op", op), slog.String("uuid", idStr))
		response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_request", "Invalid user ID format")
		return
	}

	wallet, err := h.service.RegisterWallet(r.Context(), userID)
	if err != nil {
		log.Error("не удалось создать кошелек", slog.String("op", op), slog.String("error", err.Error()))
		response.WriteJSONError(w, log, http.StatusInternalServerError, "internal_error", "Failed to create wallet")
		return
	}

	response.WriteJSONSuccess(w, log, http.StatusCreated, wallet)
}

func (h *WalletHandler) GetWalletByID(w http.ResponseWriter, r *http.Request) {
	const op = "handler.GetWalletByID"
	log := middlew.GetLogger(r.Context())

	idStr := chi.URLParam(r, "walletID")
	id, err := uuid.Parse(idStr)
	if err != nil {
		log.Warn("невалидный UUID", slog.String("op", op), slog.String("uuid", idStr))
		response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_request", "Invalid wallet ID format")
		return
	}

	wallet, err := h.service.GetWalletByID(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, custom_err.ErrNotFound):
			log.Info("кошелек не найден", slog.String("op", op), slog.String("id", id.String()))
			response.WriteJSONError(w, log, http.StatusNotFound, "not_found", "Wallet not found")
		default:
			log.Error("ошибка получения кошелька", slog.String("op", op), slog.String("error", err.Error()))
			response.WriteJSONError(w, log, http.StatusInternalServerError, "internal_error", "Failed to retrieve wallet")
		}
		return
	}

	response.WriteJSONSuccess(w, log, http.StatusOK, wallet)
}

func (h *WalletHandler) ApplyOperation(w http.ResponseWriter, r *http.Request) {
	const op = "handler.ApplyOperation"
	log := middlew.GetLogger(r.Context())

	defer r.Body.Close()

	var req models.WalletOperationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("ошибка декодирования JSON", slog.String("op", op), slog.String("error", err.Error()))
		response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_json", "Invalid JSON body")
		return
	}

	wallet, err := h.service.ApplyOperation(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, custom_err.ErrValidation):
			log.Warn("невалидная операция", slog.String("op", op), slog.Any("req", req))
			response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_field", "Invalid operation type or amount")
		case errors.Is(err, custom_err.ErrNotFound):
			log.Info("кошелек не найден", slog.String("op", op), slog.Any("req", req))
			response.WriteJSONError(w, log, http.StatusNotFound, "not_found", "Wallet not found")
		case errors.Is(err, custom_err.ErrInsufficientFunds):
			log.Warn("недостаточно средств", slog.String("op", op), slog.Any("req", req))
			response.WriteJSONError(w, log, http.StatusBadRequest, "insufficient_funds", "Insufficient funds in the wallet")
		default:
			log.Error("не удалось выполнить операцию", slog.String("op", op), slog.String("error", err.Error()))
			response.WriteJSONError(w, log, http.StatusInternalServerError, "internal_error", "An internal error occurred")
		}
		return
	}

	response.WriteJSONSuccess(w, log, http.StatusOK, wallet)
}

func (h *WalletHandler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	const op = "handler.GetTransactions"
	log := middlew.GetLogger(r.Context())

	idStr := chi.URLParam(r, "walletID")
	id, err := uuid.Parse(idStr)
	if err != nil {
		log.Warn("невалидный UUID", slog.String("op", op), slog.String("uuid", idStr))
		response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_request", "Invalid wallet ID format")
		return
	}

	transactions, err := h.service.Transactions(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, custom_err.ErrNotFound):
			log.Info("кошелек не найден", slog.String("op", op), slog.String("id", id.String()))
			response.WriteJSONError(w, log, http.StatusNotFound, "not_found", "Wallet not found")
		default:
			log.Error("ошибка получения истории", slog.String("op", op), slog.String("error", err.Error()))
			response.WriteJSONError(w, log, http.StatusInternalServerError, "internal_error", "Failed to retrieve transactions")
		}
		return
	}

	response.WriteJSONSuccess(w, log, http.StatusOK, transactions)
}
