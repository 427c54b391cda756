package custom_err

import "errors"

var (
	ErrNotFound          = errors.New("запись не найдена")
	ErrInsufficientFunds = errors.New("недостаточно средств на счете")
	ErrValidation        = errors.New("некорректные входные данные")
	ErrConnection        = errors.New("не удалось подключиться к брокеру сообщений")
	ErrRPCTimeout        = errors.New("истекло время ожидания ответа от ml-сервиса")
	ErrProtocol          = errors.New("некорректный формат ответа от ml-сервиса")
	ErrPersistence       = errors.New("не удалось сохранить результат предсказания")
)
