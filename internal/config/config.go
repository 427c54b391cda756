package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" default:"postgres"`
	Password string `envconfig:"DB_PASSWORD" default:"postgres"`
	Name     string `envconfig:"DB_NAME" default:"recommender"`
	SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
}

func (c DBConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode)
}

func (c DBConfig) MigrationURL() string {
	return c.DSN()
}

type RabbitConfig struct {
	Host     string `envconfig:"RABBITMQ_HOST" default:"localhost"`
	Port     string `envconfig:"RABBITMQ_PORT" default:"5672"`
	User     string `envconfig:"RABBITMQ_USER" default:"guest"`
	Password string `envconfig:"RABBITMQ_PASSWORD" default:"guest"`
	// TaskQueue — общая очередь задач на получение эмбеддингов.
	TaskQueue string `envconfig:"RABBITMQ_TASK_QUEUE" default:"ml_task_queue"`
}

func (c RabbitConfig) URL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s/", c.User, c.Password, c.Host, c.Port)
}

type Config struct {
	HTTPPort     string `envconfig:"HTTP_PORT" default:"8080"`
	LogFile      string `envconfig:"LOG_FILE" default:"errors.log"`
	RPCTimeout   int    `envconfig:"RPC_TIMEOUT_SECONDS" default:"30"`
	Embedder     string `envconfig:"EMBEDDER" default:"remote"`
	EmbeddingDim int    `envconfig:"EMBEDDING_DIM" default:"384"`

	DB     DBConfig
	Rabbit RabbitConfig
}

func NewConfig() (*Config, error) {
	// .env нужен только для локального запуска, в контейнере его нет.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("ошибка чтения переменных окружения: %w", err)
	}
	return &cfg, nil
}
