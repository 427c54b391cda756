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

type PredictionHandler struct {
	service service.PredictionServicer
}

func NewPredictionHandler(service service.PredictionServicer) *PredictionHandler {
	return &PredictionHandler{
		service: service,
	}
}

func (h *PredictionHandler) NewPrediction(w http.ResponseWriter, r *http.Request) {
	const op = "handler.NewPrediction"
	log := middlew.GetLogger(r.Context())

	defer r.Body.Close()

	var req models.PredictionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("ошибка декодирования JSON", slog.String("op", op), slog.String("error", err.Error()))
		response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_json", "Invalid JSON body")
		return
	}

	prediction, err := h.service.RequestRecommendation(r.Context(), req.UserID, req.Text, req.Top)
	if err != nil {
		switch {
		case errors.Is(err, custom_err.ErrValidation):
			log.Warn("невалидный запрос рекомендации", slog.String("op", op))
			response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_field", "Request text must not be empty")
		case errors.Is(err, custom_err.ErrNotFound):
			log.Info("пользователь или кошелек не найден", slog.String("op", op), slog.String("user_id", req.UserID.String()))
			response.WriteJSONError(w, log, http.StatusNotFound, "not_found", "User or wallet not found")
		case errors.Is(err, custom_err.ErrInsufficientFunds):
			log.Warn("недостаточно средств для рекомендации", slog.String("op", op), slog.String("user_id", req.UserID.String()))
			response.WriteJSONError(w, log, http.StatusPaymentRequired, "insufficient_funds", "Insufficient funds for a recommendation")
		case errors.Is(err, custom_err.ErrRPCTimeout):
			log.Error("таймаут ml-сервиса", slog.String("op", op))
			response.WriteJSONError(w, log, http.StatusGatewayTimeout, "rpc_timeout", "Recommendation service timed out, the charge was refunded")
		case errors.Is(err, custom_err.ErrConnection), errors.Is(err, custom_err.ErrProtocol):
			log.Error("ошибка обмена с ml-сервисом", slog.String("op", op), slog.String("error", err.Error()))
			response.WriteJSONError(w, log, http.StatusBadGateway, "rpc_error", "Recommendation service is unavailable, the charge was refunded")
		default:
			log.Error("не удалось получить рекомендацию", slog.String("op", op), slog.String("error", err.Error()))
			response.WriteJSONError(w, log, http.StatusInternalServerError, "internal_error", "An internal error occurred")
		}
		return
	}

	response.WriteJSONSuccess(w, log, http.StatusCreated, prediction)
}

func (h *PredictionHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	const op = "handler.GetHistory"
	log := middlew.GetLogger(r.Context())

	idStr := chi.URLParam(r, "userID")
	id, err := uuid.Parse(idStr)
	if err != nil {
		log.Warn("невалидный UUID", slog.String("op", op), slog.String("uuid", idStr))
		response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_request", "Invalid user ID format")
		return
	}

	predictions, err := h.service.History(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, custom_err.ErrNotFound):
			log.Info("пользователь не найден", slog.String("op", op), slog.String("id", id.String()))
			response.WriteJSONError(w, log, http.StatusNotFound, "not_found", "User not found")
		default:
			log.Error("ошибка получения истории предсказаний", slog.String("op", op), slog.String("error", err.Error()))
			response.WriteJSONError(w, log, http.StatusInternalServerError, "internal_error", "Failed to retrieve predictions")
		}
		return
	}

	response.WriteJSONSuccess(w, log, http.StatusOK, predictions)
}
