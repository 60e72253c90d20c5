package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Configはアプリ全体の設定
type Config struct {
	Port string // サーバーポート（8080）

	DatabaseURL      string // 指定があればPOSTGRES_*より優先
	PostgresUser     string // DBユーザー
	PostgresPassword string // DBパスワード
	PostgresDB       string // DB名
	PostgresHost     string // DBホスト（localhost）
	PostgresPort     int    // DBポート（5432）
	PostgresSSLMode  string

	DBMaxOpenConns    int
	DBConnMaxLifetime time.Duration

	JWTSecret      string        // JWT署名シークレット
	AccessTokenTTL time.Duration // アクセストークンの有効期限

	GoEnv     string   // development/production
	FEOrigins []string // CORSで許可するフロントURL
	LogLevel  string

	SeedProducts bool // 起動時に商品が空なら投入する
	SeedCount    int

	AMQPURL            string // 空ならoutbox relayは起動しない
	OutboxPollInterval time.Duration
	OutboxBatchSize    int

	ShutdownTimeout time.Duration
}

func (c Config) IsProduction() bool {
	return c.GoEnv == "production"
}

// Loadは環境変数から設定を読む
func Load() (Config, error) {
	pgPort, err := atoiDefault("POSTGRES_PORT", 5432)
	if err != nil {
		return Config{}, err
	}
	maxOpen, err := atoiDefault("DB_MAX_OPEN_CONNS", 10)
	if err != nil {
		return Config{}, err
	}
	connLifetime, err := durationDefault("DB_CONN_MAX_LIFETIME", 300*time.Second)
	if err != nil {
		return Config{}, err
	}
	accessTTL, err := durationDefault("ACCESS_TOKEN_TTL", 24*time.Hour)
	if err != nil {
		return Config{}, err
	}
	seed, err := boolDefault("SEED_PRODUCTS", true)
	if err != nil {
		return Config{}, err
	}
	seedCount, err := atoiDefault("SEED_COUNT", 120)
	if err != nil {
		return Config{}, err
	}
	pollInterval, err := durationDefault("OUTBOX_POLL_INTERVAL", 3*time.Second)
	if err != nil {
		return Config{}, err
	}
	batchSize, err := atoiDefault("OUTBOX_BATCH_SIZE", 10)
	if err != nil {
		return Config{}, err
	}
	shutdown, err := durationDefault("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port: getenv("PORT", "8080"),

		DatabaseURL:      normalizeDatabaseURL(os.Getenv("DATABASE_URL")),
		PostgresUser:     getenv("POSTGRES_USER", "postgres"),
		PostgresPassword: getenv("POSTGRES_PASSWORD", "postgres"),
		PostgresDB:       getenv("POSTGRES_DB", "ecoshop"),
		PostgresHost:     getenv("POSTGRES_HOST", "localhost"),
		PostgresPort:     pgPort,
		PostgresSSLMode:  getenv("POSTGRES_SSLMODE", "disable"),

		DBMaxOpenConns:    maxOpen,
		DBConnMaxLifetime: connLifetime,

		JWTSecret:      os.Getenv("JWT_SECRET"),
		AccessTokenTTL: accessTTL,

		GoEnv:     getenv("GO_ENV", "development"),
		FEOrigins: splitCSV(os.Getenv("FE_URL")),
		LogLevel:  getenv("LOG_LEVEL", "info"),

		SeedProducts: seed,
		SeedCount:    seedCount,

		AMQPURL:            os.Getenv("AMQP_URL"),
		OutboxPollInterval: pollInterval,
		OutboxBatchSize:    batchSize,

		ShutdownTimeout: shutdown,
	}

	//必須チェック
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.GoEnv != "development" && cfg.GoEnv != "production" {
		return Config{}, fmt.Errorf("GO_ENV must be development or production")
	}
	if cfg.SeedCount < 0 {
		return Config{}, fmt.Errorf("SEED_COUNT must be >= 0")
	}
	if cfg.OutboxBatchSize <= 0 {
		return Config{}, fmt.Errorf("OUTBOX_BATCH_SIZE must be > 0")
	}

	//CORSの許可先（未指定なら開発用のフロント）
	if len(cfg.FEOrigins) == 0 {
		if cfg.IsProduction() {
			return Config{}, fmt.Errorf("FE_URL is required in production")
		}
		cfg.FEOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173"}
	}

	return cfg, nil
}

// DSNはgorm(postgres)に渡す接続文字列
func (c Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgresHost, c.PostgresPort, c.PostgresUser, c.PostgresPassword, c.PostgresDB, c.PostgresSSLMode,
	)
}

// Heroku形式の postgres:// を postgresql:// に寄せる
func normalizeDatabaseURL(v string) string {
	v = strings.TrimSpace(v)
	if strings.HasPrefix(v, "postgres://") {
		return "postgresql://" + strings.TrimPrefix(v, "postgres://")
	}
	return v
}

func getenv(key string, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func atoiDefault(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}

func durationDefault(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be duration: %w", key, err)
	}
	return d, nil
}

func boolDefault(key string, def bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s must be bool: %w", key, err)
	}
	return b, nil
}

func splitCSV(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		s = strings.TrimRight(strings.TrimSpace(s), "/")
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
