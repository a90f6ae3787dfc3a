package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-ini/ini"
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
}

type Storage struct {
	Driver        string
	PublicBaseURL string
	MaxImageSize  int64
}

type Log struct {
	Level      string
	File       string
	MaxSize    int
	MaxAge     int
	MaxBackups int
}

type RateLimit struct {
	RPS   float64
	Burst int

	// TrustedProxies lists proxy IPs or CIDRs whose forwarding headers are
	// believed; requests from anyone else are keyed on the peer address.
	TrustedProxies []string
	IdleTTL        time.Duration
}

type Config struct {
	ServerPort          int
	DB                  DB
	MinIO               MinIO
	Storage             Storage
	Log                 Log
	AuthRateLimit       RateLimit
	JWTSecretKey        string
	AccessTokenDuration time.Duration
	CORSAllowedOrigins  []string
	Location            *time.Location
	MigrationsPath      string
}

// loader resolves keys from the process environment first and then from an
// optional INI file flattened into SECTION_KEY form.
type loader struct {
	file map[string]string
}

func (l loader) getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	if value, exists := l.file[key]; exists {
		return value
	}
	return defaultValue
}

func (l loader) getEnvBool(key string, fallback bool) bool {
	if boolValue, err := strconv.ParseBool(l.getEnv(key, "")); err == nil {
		return boolValue
	}
	return fallback
}

func (l loader) getEnvAsInt(key string, defaultValue int) int {
	if intValue, err := strconv.Atoi(l.getEnv(key, "")); err == nil {
		return intValue
	}
	return defaultValue
}

func (l loader) getEnvAsFloat(key string, defaultValue float64) float64 {
	if floatValue, err := strconv.ParseFloat(l.getEnv(key, ""), 64); err == nil {
		return floatValue
	}
	return defaultValue
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(value)
	if err != nil || duration <= 0 {
		return fallback
	}
	return duration
}

// parseMaxImageSize accepts plain byte counts as well as "5MB" or "10MiB".
func parseMaxImageSize(value string) int64 {
	size, err := humanize.ParseBytes(value)
	if err != nil || size == 0 {
		return 10 * 1024 * 1024
	}
	return int64(size)
}

func parseList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func parseLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("Warning: неизвестная временная зона %q, используется UTC", name)
		return time.UTC
	}
	return loc
}

// loadINI flattens an INI file into SECTION_KEY entries; keys of the default
// section are used as is.
func loadINI(path string) (map[string]string, error) {
	file, err := ini.Load(path)
	if err != nil {
		return nil, err
	}

	values := make(map[string]string)
	for _, section := range file.Sections() {
		prefix := ""
		if section.Name() != ini.DefaultSection {
			prefix = strings.ToUpper(section.Name()) + "_"
		}
		for _, key := range section.Keys() {
			values[prefix+strings.ToUpper(key.Name())] = key.Value()
		}
	}
	return values, nil
}

func (l loader) loadDB() DB {
	return DB{
		DbHOST:     l.getEnv("DB_HOST", "localhost"),
		DbPORT:     l.getEnv("DB_PORT", "5432"),
		DbUSER:     l.getEnv("DB_USER", "postgres"),
		DbPASSWORD: l.getEnv("DB_PASSWORD", "password"),
		DbNAME:     l.getEnv("DB_NAME", "mydiary"),
		DbSSLMODE:  l.getEnv("DB_SSLMODE", "disable"),
	}
}

func (l loader) loadMinIO() MinIO {
	return MinIO{
		Endpoint:   l.getEnv("MINIO_ENDPOINT", "localhost:9000"),
		AccessKey:  l.getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		SecretKey:  l.getEnv("MINIO_SECRET_KEY", "minioadmin"),
		BucketName: l.getEnv("MINIO_BUCKET_NAME", "images"),
		UseSSL:     l.getEnvBool("MINIO_USE_SSL", false),
		Region:     l.getEnv("MINIO_REGION", "us-east-1"),
	}
}

func (l loader) load() *Config {
	return &Config{
		ServerPort: l.getEnvAsInt("SERVER_PORT", 8080),
		DB:         l.loadDB(),
		MinIO:      l.loadMinIO(),
		Storage: Storage{
			Driver:        strings.ToLower(l.getEnv("STORAGE_DRIVER", "stub")),
			PublicBaseURL: strings.TrimSuffix(l.getEnv("STORAGE_PUBLIC_BASE_URL", "http://localhost:8080"), "/"),
			MaxImageSize:  parseMaxImageSize(l.getEnv("MAX_IMAGE_SIZE", "10485760")),
		},
		Log: Log{
			Level:      l.getEnv("LOG_LEVEL", "info"),
			File:       l.getEnv("LOG_FILE", ""),
			MaxSize:    l.getEnvAsInt("LOG_MAX_SIZE", 100),
			MaxAge:     l.getEnvAsInt("LOG_MAX_AGE", 30),
			MaxBackups: l.getEnvAsInt("LOG_MAX_BACKUPS", 5),
		},
		AuthRateLimit: RateLimit{
			RPS:            l.getEnvAsFloat("AUTH_RATE_LIMIT_RPS", 5),
			Burst:          l.getEnvAsInt("AUTH_RATE_LIMIT_BURST", 10),
			TrustedProxies: parseList(l.getEnv("AUTH_RATE_LIMIT_TRUSTED_PROXIES", "")),
			IdleTTL:        parseDuration(l.getEnv("AUTH_RATE_LIMIT_IDLE_TTL", "10m"), 10*time.Minute),
		},
		JWTSecretKey:        l.getEnv("JWT_SECRET_KEY", ""),
		AccessTokenDuration: parseDuration(l.getEnv("ACCESS_TOKEN_DURATION", "24h"), 24*time.Hour),
		CORSAllowedOrigins:  parseList(l.getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173")),
		Location:            parseLocation(l.getEnv("TIMEZONE", "UTC")),
		MigrationsPath:      l.getEnv("MIGRATIONS_PATH", "migrations/001_create_tables.sql"),
	}
}

func LoadConfig() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	l := loader{}
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		values, err := loadINI(path)
		if err != nil {
			log.Printf("Warning: не удалось прочитать файл конфигурации %s: %v", path, err)
		} else {
			l.file = values
		}
	}

	return l.load()
}
