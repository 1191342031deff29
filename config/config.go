// config.go - Handles configuration for the marketplace backend

package config // Declares the package name

import ( // Import required packages
	"os"      // For reading environment variables
	"strconv" // For numeric settings
	"strings" // For boolean parsing
	"time"    // For durations (OTP lifetime)
)

type Config struct { // Config struct holds all configuration values
	Env                string        // prod (default) or dev; controls gin mode, log format and Secure cookies
	Port               string        // HTTP listen port
	DBPath             string        // Path to the SQLite database file
	JWTSecret          string        // Secret key for session tokens
	UPIID              string        // UPI ID buyers pay to during checkout
	PlatformFeePercent int64         // Platform share of every order, in percent
	OTPTTL             time.Duration // How long a signup OTP stays valid
	UploadDir          string        // Where sample audio and covers are written
	PublicBaseURL      string        // Base URL used in download links
	MQTTBroker         string        // MQTT broker for marketplace events (empty disables)
	SMTPHost           string        // SMTP host (empty means OTP mails are only logged)
	SMTPPort           string
	SMTPUser           string
	SMTPPass           string
	SMTPFrom           string
	CreateAdmin        bool   // Seed a default admin on startup
	AdminEmail         string // Seeded admin email
	AdminPassword      string // Seeded admin password
}

func Load() *Config { // Load reads config from environment variables or uses defaults
	return &Config{
		Env:                getEnv("APP_ENV", "prod"), // Debug mode and insecure cookies only when asked for
		Port:               getEnv("PORT", "8080"),
		DBPath:             getEnv("DB_PATH", "data.db"),
		JWTSecret:          getEnv("JWT_SECRET", "supersecret"),
		UPIID:              getEnv("UPI_ID", "prhallad2@ybl"),
		PlatformFeePercent: getEnvInt("PLATFORM_FEE_PERCENT", 20),
		OTPTTL:             getEnvDuration("OTP_TTL", 10*time.Minute),
		UploadDir:          getEnv("UPLOAD_DIR", "uploads"),
		PublicBaseURL:      getEnv("PUBLIC_BASE_URL", "http://localhost:8080"),
		MQTTBroker:         getEnv("MQTT_BROKER", ""),
		SMTPHost:           getEnv("SMTP_HOST", ""),
		SMTPPort:           getEnv("SMTP_PORT", "587"),
		SMTPUser:           getEnv("SMTP_USER", ""),
		SMTPPass:           getEnv("SMTP_PASS", ""),
		SMTPFrom:           getEnv("SMTP_FROM", "no-reply@lusionbeatz.in"),
		CreateAdmin:        getEnvBool("CREATE_ADMIN", false),
		AdminEmail:         getEnv("ADMIN_EMAIL", "admin@lusionbeatz.in"),
		AdminPassword:      getEnv("ADMIN_PASSWORD", ""),
	}
}

func getEnv(key, fallback string) string { // Helper to get env var or fallback
	if value := os.Getenv(key); value != "" { // If env var is set, use it
		return value
	}
	return fallback // Otherwise, use fallback value
}

func getEnvInt(key string, fallback int64) int64 {
	n, err := strconv.ParseInt(getEnv(key, ""), 10, 64)
	if err != nil {
		return fallback // Unset or malformed
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	switch strings.ToLower(getEnv(key, "")) {
	case "1", "true", "yes":
		return true
	case "0", "false", "no":
		return false
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, ""))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
