package recommender

import (
	"context"
	"hash/fnv"
	"math"
	"strings"

	"api_recommender/internal/custom_err"
)

var _ Recommender = (*Local)(nil)

// Local — детерминированный эмбеддер на основе хеширования признаков:
// каждый токен хешируется в одну из координат вектора, результат
// L2-нормализуется. Один и тот же текст всегда дает один и тот же вектор,
// близкие по лексике тексты дают близкие векторы.
type Local struct {
	dim int
}

// defaultDim соответствует размерности колонок VECTOR в схеме БД.
const defaultDim = 384

func NewLocal(dim int) *Local {
	if dim <= 0 {
		dim = defaultDim
	}
	return &Local{dim: dim}
}

func (l *Local) Embed(_ context.Context, text string) ([]float32, error) {
	tokens := strings.Fields(strings.ToLower(text))
	if len(tokens) == 0 {
		return nil, custom_err.ErrValidation
	}

	vec := make([]float32, l.dim)
	for _, token := range tokens {
		h := fnv.New64a()
		h.Write([]byte(token))
		sum := h.Sum64()

		idx := int(sum % uint64(l.dim))
		sign := float32(1)
		if (sum>>63)&1 == 1 {
			sign = -1
		}
		vec[idx] += sign
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range vec {
			vec[i] = float32(float64(vec[i]) / norm)
		}
	}
	return vec, nil
}
