package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port        int
	DatabaseURL string
	AuthUser    string
	AuthPass    string
	BaseURL     string
	CacheSize   int
	LogLevel    string

	MaxHistory       int
	DefaultSize      int
	MinSize          int
	MaxSize          int
	LogoPadding      int
	LogoCornerRadius int
	MaxLogoBytes     int
	MaxLogoSide      int
	QRBorder         bool
}

func LoadConfig() Config {
	return Config{
		Port:        getEnvInt("PORT", 8080),
		DatabaseURL: getEnv("DATABASE_URL", "qrstudio.db"),
		AuthUser:    getEnv("AUTH_USER", "admin"),
		AuthPass:    getEnv("AUTH_PASS", "password"),
		BaseURL:     getEnv("BASE_URL", ""),
		CacheSize:   getEnvInt("CACHE_SIZE", 256),
		LogLevel:    getEnv("LOG_LEVEL", "INFO"),

		MaxHistory:       getEnvInt("MAX_HISTORY", 15),
		DefaultSize:      getEnvInt("DEFAULT_SIZE", 256),
		MinSize:          getEnvInt("MIN_SIZE", 128),
		MaxSize:          getEnvInt("MAX_SIZE", 512),
		LogoPadding:      getEnvInt("LOGO_PADDING", 8),
		LogoCornerRadius: getEnvInt("LOGO_CORNER_RADIUS", 10),
		MaxLogoBytes:     getEnvInt("MAX_LOGO_BYTES", 2<<20),
		MaxLogoSide:      getEnvInt("MAX_LOGO_SIDE", 4096),
		QRBorder:         getEnvBool("QR_BORDER", true),
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt falls back to defaultValue when key is unset or not a number.
func getEnvInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvBool(key string, defaultValue bool) bool {
	b, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return b
}
