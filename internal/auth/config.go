package auth

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds authentication and server configuration.
type Config struct {
	AdminEmail        string
	AdminPasswordHash string // bcrypt hash, never a plaintext literal
	JWTSecret         string
	SMTPHost          string
	SMTPPort          string
	SMTPUser          string
	SMTPPass          string
	SMTPFrom          string
	DevMode           bool
	BaseURL           string // e.g. http://localhost:8080
	UploadDir         string
}

// ConfigFromEnv creates a Config from environment variables.
// A .env file in the working directory is loaded first if present.
func ConfigFromEnv() Config {
	_ = godotenv.Load()

	return Config{
		AdminEmail:        os.Getenv("LITORAL_ADMIN_EMAIL"),
		AdminPasswordHash: os.Getenv("LITORAL_ADMIN_PASSWORD_HASH"),
		JWTSecret:         os.Getenv("LITORAL_JWT_SECRET"),
		SMTPHost:          os.Getenv("LITORAL_SMTP_HOST"),
		SMTPPort:          envOrDefault("LITORAL_SMTP_PORT", "587"),
		SMTPUser:          os.Getenv("LITORAL_SMTP_USER"),
		SMTPPass:          os.Getenv("LITORAL_SMTP_PASS"),
		SMTPFrom:          os.Getenv("LITORAL_SMTP_FROM"),
		DevMode:           os.Getenv("LITORAL_DEV_MODE") == "true",
		BaseURL:           envOrDefault("LITORAL_BASE_URL", "http://localhost:8080"),
		UploadDir:         os.Getenv("LITORAL_UPLOAD_DIR"),
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
