package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool
	JWTSecret    string
	JWTExpiry    time.Duration
	JWTIssuer    string
	FrontendBase string

	// Dashboard gate. The defaults are the demo values; production deployments
	// must override both through the environment, never in code.
	DashboardGateCode  string
	RestrictedAccounts []string

	// Transfer flow tuning.
	ProcessingDelay  time.Duration
	MaxPinAttempts   int
	PinLockoutWindow time.Duration

	// Notification relay (EmailJS-compatible HTTP API).
	RelayBaseURL           string
	RelayServiceID         string
	RelayPublicKey         string
	RelayOTPTemplateID     string
	RelayWelcomeTemplateID string

	// Google sign-in.
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "nb-backend")
	viper.SetDefault("FRONTEND_BASE_URL", "http://localhost:3000")
	viper.SetDefault("DASHBOARD_GATE_CODE", "483921")
	viper.SetDefault("RESTRICTED_ACCOUNTS", "1223459922,4441048536")
	viper.SetDefault("TRANSFER_PROCESSING_DELAY", "2500ms")
	viper.SetDefault("TRANSFER_MAX_PIN_ATTEMPTS", 3)
	viper.SetDefault("TRANSFER_PIN_LOCKOUT_WINDOW", "30s")
	viper.SetDefault("RELAY_BASE_URL", "https://api.emailjs.com/api/v1.0/email/send")
	viper.SetDefault("RELAY_SERVICE_ID", "")
	viper.SetDefault("RELAY_PUBLIC_KEY", "")
	viper.SetDefault("RELAY_OTP_TEMPLATE_ID", "")
	viper.SetDefault("RELAY_WELCOME_TEMPLATE_ID", "")
	viper.SetDefault("GOOGLE_CLIENT_ID", "")
	viper.SetDefault("GOOGLE_CLIENT_SECRET", "")
	viper.SetDefault("GOOGLE_REDIRECT_URL", "")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET not set. Using default insecure key.")
	}

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiry, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiry = time.Hour
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiry)
	}
	cfg.JWTExpiry = jwtExpiry
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")
	cfg.FrontendBase = viper.GetString("FRONTEND_BASE_URL")

	cfg.DashboardGateCode = viper.GetString("DASHBOARD_GATE_CODE")
	for _, acct := range strings.Split(viper.GetString("RESTRICTED_ACCOUNTS"), ",") {
		if acct = strings.TrimSpace(acct); acct != "" {
			cfg.RestrictedAccounts = append(cfg.RestrictedAccounts, acct)
		}
	}

	delayStr := viper.GetString("TRANSFER_PROCESSING_DELAY")
	delay, err := time.ParseDuration(delayStr)
	if err != nil {
		delay = 2500 * time.Millisecond
		log.Printf("Warning: Invalid value for TRANSFER_PROCESSING_DELAY ('%s'). Defaulting to %s.\n", delayStr, delay)
	}
	cfg.ProcessingDelay = delay

	cfg.MaxPinAttempts = viper.GetInt("TRANSFER_MAX_PIN_ATTEMPTS")
	if cfg.MaxPinAttempts <= 0 {
		cfg.MaxPinAttempts = 3
	}
	lockoutStr := viper.GetString("TRANSFER_PIN_LOCKOUT_WINDOW")
	lockout, err := time.ParseDuration(lockoutStr)
	if err != nil {
		lockout = 30 * time.Second
		log.Printf("Warning: Invalid value for TRANSFER_PIN_LOCKOUT_WINDOW ('%s'). Defaulting to %s.\n", lockoutStr, lockout)
	}
	cfg.PinLockoutWindow = lockout

	cfg.RelayBaseURL = viper.GetString("RELAY_BASE_URL")
	cfg.RelayServiceID = viper.GetString("RELAY_SERVICE_ID")
	cfg.RelayPublicKey = viper.GetString("RELAY_PUBLIC_KEY")
	cfg.RelayOTPTemplateID = viper.GetString("RELAY_OTP_TEMPLATE_ID")
	cfg.RelayWelcomeTemplateID = viper.GetString("RELAY_WELCOME_TEMPLATE_ID")
	if cfg.RelayServiceID == "" {
		log.Println("Warning: RELAY_SERVICE_ID not set. Outbound email disabled.")
	}

	cfg.GoogleClientID = viper.GetString("GOOGLE_CLIENT_ID")
	cfg.GoogleClientSecret = viper.GetString("GOOGLE_CLIENT_SECRET")
	cfg.GoogleRedirectURL = viper.GetString("GOOGLE_REDIRECT_URL")
	if cfg.GoogleClientID == "" {
		log.Println("Warning: GOOGLE_CLIENT_ID not set. Google sign-in will not function.")
	}

	return cfg, nil
}
