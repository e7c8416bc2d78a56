package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type DB struct {
	DbHOST     string
	DbPORT     string
	DbUSER     string
	DbPASSWORD string
	DbNAME     string
	DbSSLMODE  string
}

type MinIO struct {
	Endpoint   string
	AccessKey  string
	SecretKey  string
	BucketName string
	UseSSL     bool
	Region     string
	URLExpiry  time.Duration
}

type Mail struct {
	APIURL      string
	APIKey      string
	SenderName  string
	SenderEmail string
}

type Frontend struct {
	Origin               string
	EmailVerificationURL string
	PasswordResetURL     string
}

type Config struct {
	ServerPort                int
	DB                        DB
	MinIO                     MinIO
	Mail                      Mail
	Frontend                  Frontend
	JWTSecretKey              string
	AccessTokenExpiresIn      string
	RefreshTokenExpiresIn     string
	EmailVerificationTokenTTL string
	PasswordResetTokenTTL     string
	BcryptCost                int
	MaxUploadSize             int64
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return fallback
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func parseDuration(value string) time.Duration {
	duration, err := time.ParseDuration(value)
	if err != nil {
		return 2 * time.Hour
	}
	return duration
}

func LoadDB() DB {
	return DB{
		DbHOST:     getEnv("DB_HOST", "localhost"),
		DbPORT:     getEnv("DB_PORT", "5432"),
		DbUSER:     getEnv("DB_USER", "postgres"),
		DbPASSWORD: getEnv("DB_PASSWORD", "password"),
		DbNAME:     getEnv("DB_NAME", "social-app"),
		DbSSLMODE:  getEnv("DB_SSLMODE", "disable"),
	}
}

func LoadMinIO() MinIO {
	return MinIO{
		Endpoint:   getEnv("MINIO_ENDPOINT", "localhost:9000"),
		AccessKey:  getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		SecretKey:  getEnv("MINIO_SECRET_KEY", "minioadmin"),
		BucketName: getEnv("MINIO_BUCKET_NAME", "social-app"),
		UseSSL:     getEnvBool("MINIO_USE_SSL", false),
		Region:     getEnv("MINIO_REGION", "us-east-1"),
		URLExpiry:  parseDuration(getEnv("MINIO_URL_EXPIRY", "168h")),
	}
}

func LoadMail() Mail {
	return Mail{
		APIURL:      getEnv("BREVO_API_URL", "https://api.brevo.com/v3/smtp/email"),
		APIKey:      getEnv("BREVO_API_KEY", ""),
		SenderName:  getEnv("BREVO_SENDER_NAME", "SocialApp"),
		SenderEmail: getEnv("BREVO_SENDER_MAIL_ADDRESS", "no-reply@socialapp.dev"),
	}
}

func LoadFrontend() Frontend {
	return Frontend{
		Origin:               getEnv("FRONTEND_ORIGIN", "http://localhost:3000"),
		EmailVerificationURL: getEnv("FRONTEND_EMAIL_VERIFICATION_URL", "http://localhost:3000/email-verification"),
		PasswordResetURL:     getEnv("FRONTEND_PASSWORD_RESET_URL", "http://localhost:3000/reset-password"),
	}
}

func LoadConfig() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	return &Config{
		ServerPort:                getEnvAsInt("SERVER_PORT", 3030),
		DB:                        LoadDB(),
		MinIO:                     LoadMinIO(),
		Mail:                      LoadMail(),
		Frontend:                  LoadFrontend(),
		JWTSecretKey:              getEnv("JWT_SECRET_KEY", ""),
		AccessTokenExpiresIn:      getEnv("JWT_ACCESS_TOKEN_EXPIRES_IN", "15m"),
		RefreshTokenExpiresIn:     getEnv("JWT_REFRESH_TOKEN_EXPIRES_IN", "24h"),
		EmailVerificationTokenTTL: getEnv("JWT_EMAIL_VERIFICATION_TOKEN_EXPIRES_IN", "48h"),
		PasswordResetTokenTTL:     getEnv("JWT_PASSWORD_RESET_TOKEN_EXPIRES_IN", "6h"),
		BcryptCost:                getEnvAsInt("AUTH_HASHING_COST", 10),
		MaxUploadSize:             parseMaxUploadSize(getEnv("MAX_UPLOAD_SIZE", "10485760")),
	}
}

func parseMaxUploadSize(value string) int64 {
	size, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 10 * 1024 * 1024
	}
	return size
}
