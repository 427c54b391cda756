package recommender

import "context"

// Recommender вычисляет эмбеддинг текстового запроса пользователя.
// Варианты: Local — модель внутри процесса (используется воркером),
// Remote — вызов ml-сервиса через брокер сообщений (используется API).
// Вариант выбирается конфигурацией.
type Recommender interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
