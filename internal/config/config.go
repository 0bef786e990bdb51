package config

import (
	"context"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config holds runtime configuration for the tourd service.
type Config struct {
	Addr string `env:"ADDR,default=:8080"`
	Env  string `env:"ENV,default=development"`

	DBDSN string `env:"DB_DSN,required"`

	JWTSecret    string        `env:"JWT_SECRET,required"`
	JWTTTL       time.Duration `env:"JWT_TTL,default=2160h"`
	JWTCookieTTL time.Duration `env:"JWT_COOKIE_TTL,default=2160h"`
	CookieSecure bool          `env:"COOKIE_SECURE,default=false"`

	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT,default=587"`
	SMTPUser     string `env:"SMTP_USER"`
	SMTPPassword string `env:"SMTP_PASS"`
	MailFrom     string `env:"MAIL_FROM,default=bookings@tourd.local"`

	PublicBaseURL  string   `env:"PUBLIC_BASE_URL,default=http://localhost:8080"`
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS,default=http://localhost:5173"`
	RateLimit      int      `env:"RATE_LIMIT,default=100"`

	OTLPEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	NATSURL      string `env:"NATS_URL"`

	ImageBucket string `env:"S3_BUCKET"`

	PaymentAPIBase   string `env:"PAYMENT_API_BASE"`
	PaymentSecretKey string `env:"PAYMENT_SECRET_KEY"`
}

// Production reports whether the service runs with production hardening
// (secure cookies, suppressed error detail).
func (c Config) Production() bool {
	return c.Env == "production"
}

// Load returns a Config populated from environment variables.
func Load(ctx context.Context) (Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
