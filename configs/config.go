package configs

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Configuration defines the structure for application settings.
// It is built once by LoadConfig and passed explicitly to whoever needs it.
type Configuration struct {
	ServerPort     string
	GinMode        string
	AllowedOrigins []string

	// Database
	DBDriver   string // sqlite, mysql, postgres
	SQLitePath string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Token / credentials
	JWTSecret   string
	TokenTTL    time.Duration
	TokenIssuer string
	BcryptCost  int

	// Redis (optional, enables the redis token denylist)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	LogDir string
}

const (
	defaultJWTSecret      = "grievance-secret-key-change-this" // Default JWT secret, used if env var is not set.
	envJWTSecretKey       = "JWT_SECRET_KEY"
	defaultServerPort     = "5000"
	envServerPortKey      = "SERVER_PORT"
	defaultTokenTTL       = 24 * time.Hour
	envTokenTTLKey        = "JWT_EXPIRES_IN"
	defaultTokenIssuer    = "grievance_system"
	envTokenIssuerKey     = "JWT_ISSUER"
	defaultBcryptCost     = 10
	envBcryptCostKey      = "BCRYPT_COST"
	defaultDBDriver       = "sqlite"
	envDBDriverKey        = "DB_DRIVER"
	defaultSQLitePath     = "data/grievance_system.db"
	envSQLitePathKey      = "SQLITE_DB_PATH"
	defaultAllowedOrigins = "http://localhost:3000"
	envAllowedOriginsKey  = "CORS_ALLOWED_ORIGINS"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

// LoadConfig loads configuration from a .env file (if present), environment
// variables and defaults. It should be called once at application startup.
func LoadConfig() (*Configuration, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not loaded (%v), relying on process environment", err)
	}
	return FromEnv()
}

// FromEnv builds a Configuration from the current process environment only.
func FromEnv() (*Configuration, error) {
	jwtSecret := os.Getenv(envJWTSecretKey)
	if jwtSecret == "" {
		jwtSecret = defaultJWTSecret
		log.Printf("Warning: %s is not set, using the default JWT secret. Set it in production.", envJWTSecretKey)
	}

	ttl := defaultTokenTTL
	if raw := os.Getenv(envTokenTTLKey); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("invalid %s %q: must be a positive duration such as 24h", envTokenTTLKey, raw)
		}
		ttl = parsed
	}

	cost := getEnvAsInt(envBcryptCostKey, defaultBcryptCost)
	if cost < 4 || cost > 31 {
		return nil, fmt.Errorf("invalid %s %d: must be between 4 and 31", envBcryptCostKey, cost)
	}

	driver := strings.ToLower(getEnv(envDBDriverKey, defaultDBDriver))
	switch driver {
	case DriverSQLite, DriverMySQL, DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported %s %q", envDBDriverKey, driver)
	}

	defaultPort := "3306"
	if driver == DriverPostgres {
		defaultPort = "5432"
	}

	cfg := &Configuration{
		ServerPort:     getEnv(envServerPortKey, defaultServerPort),
		GinMode:        getEnv("GIN_MODE", "debug"),
		AllowedOrigins: splitList(getEnv(envAllowedOriginsKey, defaultAllowedOrigins)),

		DBDriver:   driver,
		SQLitePath: getEnv(envSQLitePathKey, defaultSQLitePath),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", defaultPort),
		DBUser:     getEnv("DB_USER", "root"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "grievance_system"),

		JWTSecret:   jwtSecret,
		TokenTTL:    ttl,
		TokenIssuer: getEnv(envTokenIssuerKey, defaultTokenIssuer),
		BcryptCost:  cost,

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		LogDir: getEnv("LOG_DIR", "logs"),
	}

	log.Printf("Configuration loaded (db driver: %s, port: %s)", cfg.DBDriver, cfg.ServerPort)
	return cfg, nil
}

// DSN returns the connection string for the configured driver.
func (c *Configuration) DSN() string {
	switch c.DBDriver {
	case DriverMySQL:
		return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName +
			"?charset=utf8mb4&parseTime=True&loc=Local"
	case DriverPostgres:
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
	default:
		return c.SQLitePath
	}
}

// RedisEnabled reports whether a redis address has been configured.
func (c *Configuration) RedisEnabled() bool {
	return c.RedisAddr != ""
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
