package service

import (
	"api_recommender/internal/custom_err"
	"api_recommender/internal/models"
	"api_recommender/internal/recommender"
	"api_recommender/internal/repository"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const defaultTopN = 10

type PredictionServicer interface {
	RequestRecommendation(ctx context.Context, userID uuid.UUID, text string, topN int) (*models.Prediction, error)
	History(ctx context.Context, userID uuid.UUID) ([]models.Prediction, error)
}

var _ PredictionServicer = (*PredictionService)(nil)

// PredictionService — оркестратор оплачиваемой рекомендации: списание со
// счета, RPC-вызов за эмбеддингом, векторный поиск фильмов и сохранение
// результата. С точки зрения вызывающего операция атомарна: либо создано
// предсказание и списание остается в силе, либо баланс не изменился.
type PredictionService struct {
	users       repository.User
	wallets     repository.Wallet
	predictions repository.Prediction
	movies      repository.MovieSearch
	embedder    recommender.Recommender
	log         *slog.Logger
}

func NewPredictionService(
	users repository.User,
	wallets repository.Wallet,
	predictions repository.Prediction,
	movies repository.MovieSearch,
	embedder recommender.Recommender,
	log *slog.Logger,
) *PredictionService {
	return &PredictionService{
		users:       users,
		wallets:     wallets,
		predictions: predictions,
		movies:      movies,
		embedder:    embedder,
		log:         log,
	}
}

func (s *PredictionService) RequestRecommendation(ctx context.Context, userID uuid.UUID, text string, topN int) (*models.Prediction, error) {
	const op = "service.Prediction.RequestRecommendation"

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, custom_err.ErrValidation
	}
	if topN <= 0 {
		topN = defaultTopN
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	wallet, err := s.wallets.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	cost := models.CostFor(user.IsAdmin)

	// Списание до удаленного вызова. ErrInsufficientFunds уходит вызывающему
	// как есть: до брокера дело не дошло, компенсировать нечего.
	_, err = s.wallets.ApplyTransaction(ctx, wallet.ID, cost.Neg(),
		models.PredictionTransaction, "списание за рекомендацию")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	embedding, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, s.refundAndWrap(ctx, op, wallet.ID, cost, err)
	}

	found, err := s.movies.Nearest(ctx, embedding, topN)
	if err != nil {
		return nil, s.refundAndWrap(ctx, op, wallet.ID, cost, err)
	}

	prediction := &models.Prediction{
		UserID:    userID,
		InputText: text,
		Embedding: embedding,
		Cost:      cost,
		Movies:    found,
	}
	prediction, err = s.predictions.Create(ctx, prediction)
	if err != nil {
		err = fmt.Errorf("%w: %w", custom_err.ErrPersistence, err)
		return nil, s.refundAndWrap(ctx, op, wallet.ID, cost, err)
	}

	s.log.Info("рекомендация выдана",
		slog.String("op", op),
		slog.String("user_id", userID.String()),
		slog.String("cost", cost.String()),
		slog.Int("movies", len(found)))
	return prediction, nil
}

// refundAndWrap проводит компенсирующее зачисление после неудачи, случившейся
// уже после списания, и возвращает исходную ошибку. Пользователь платит только
// за доставленную рекомендацию.
func (s *PredictionService) refundAndWrap(ctx context.Context, op string, walletID uuid.UUID, cost decimal.Decimal, cause error) error {
	// Возврат обязан пройти даже если клиент уже отменил запрос:
	// списание состоялось, а услуга оказана не была.
	_, refundErr := s.wallets.ApplyTransaction(context.WithoutCancel(ctx), walletID, cost,
		models.PredictionTransaction, "возврат за неудавшуюся рекомендацию")
	if refundErr != nil {
		// Деньги списаны, а услуга не оказана — громко фиксируем для разбора.
		s.log.Error("не удалось вернуть списание",
			slog.String("op", op),
			slog.String("wallet_id", walletID.String()),
			slog.String("cost", cost.String()),
			slog.String("error", refundErr.Error()))
	}
	return fmt.Errorf("%s: %w", op, cause)
}

func (s *PredictionService) History(ctx context.Context, userID uuid.UUID) ([]models.Prediction, error) {
	const op = "service.Prediction.History"

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	predictions, err := s.predictions.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return predictions, nil
}
