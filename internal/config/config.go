// internal/config/config.go
package config

import (
	"log"
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server        ServerConfig
	Data          DataConfig
	Database      DatabaseConfig
	Artifacts     ArtifactConfig
	Cache         CacheConfig
	Notify        NotifyConfig
	Drive         DriveConfig
	Replenishment ReplenishmentConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	LogFormat      string
	LogLevel       string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

// DataConfig selects and describes the read-only sales/inventory store.
type DataConfig struct {
	Source           string // "workbook" or "sql"
	WorkbookPath     string
	Products         []string
	InventorySheet   string
	ProductInfoSheet string
	DateDayFirst     bool
}

type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	MaxConns int
}

type ArtifactConfig struct {
	Dir string

	// Optional S3/MinIO sync run before the registry is built.
	SyncEnabled bool
	Endpoint    string
	AccessKey   string
	SecretKey   string
	Bucket      string
	Prefix      string
	UseSSL      bool
}

type CacheConfig struct {
	Enabled            bool
	RedisURL           string
	RedisHost          string
	RedisPort          string
	RedisPassword      string
	RedisDB            int
	ForecastTTLSeconds int
}

type NotifyConfig struct {
	Channel string // "email" or "kafka"

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
	SMTPUseSSL   bool

	KafkaBrokers []string
	KafkaTopic   string
}

type DriveConfig struct {
	CredentialsJSON string
	WorkbookFileID  string
}

type ReplenishmentConfig struct {
	DefaultLeadTime int
	OverviewWorkers int
}

var (
	once     sync.Once
	instance *Config
)

// Load reads configuration from the environment (and .env when present) once
// per process.
func Load() *Config {
	once.Do(func() {
		_ = godotenv.Load()

		SetDefaults(viper.GetViper())
		viper.AutomaticEnv()

		instance = Build(viper.GetViper())
		ensureDir(instance.Artifacts.Dir)
	})

	return instance
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_MODE", "debug")
	v.SetDefault("LOG_FORMAT", "console")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SERVER_READ_TIMEOUT", 15)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 30)
	v.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})

	v.SetDefault("DATA_SOURCE", "workbook")
	v.SetDefault("DATA_WORKBOOK_PATH", "./data/sales_inventory_data.xlsx")
	v.SetDefault("DATA_PRODUCTS", "Product_1,Product_2,Product_3,Product_4,Product_5")
	v.SetDefault("DATA_INVENTORY_SHEET", "Inventory")
	v.SetDefault("DATA_PRODUCT_INFO_SHEET", "Product_Info")
	v.SetDefault("DATA_DATE_DAY_FIRST", false)

	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "stockcast")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_CONNS", 10)

	v.SetDefault("ARTIFACT_DIR", "./data/artifacts")
	v.SetDefault("ARTIFACT_SYNC_ENABLED", false)
	v.SetDefault("ARTIFACT_S3_ENDPOINT", "")
	v.SetDefault("ARTIFACT_S3_ACCESS_KEY", "")
	v.SetDefault("ARTIFACT_S3_SECRET_KEY", "")
	v.SetDefault("ARTIFACT_S3_BUCKET", "")
	v.SetDefault("ARTIFACT_S3_PREFIX", "artifacts/")
	v.SetDefault("ARTIFACT_S3_USE_SSL", true)

	v.SetDefault("CACHE_ENABLED", false)
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("REDIS_HOST", "127.0.0.1")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_FORECAST_TTL_SECONDS", 300)

	v.SetDefault("NOTIFY_CHANNEL", "email")
	v.SetDefault("SMTP_HOST", "smtp.gmail.com")
	v.SetDefault("SMTP_PORT", 465)
	v.SetDefault("SMTP_USERNAME", "")
	v.SetDefault("SMTP_PASSWORD", "")
	v.SetDefault("SMTP_FROM", "")
	v.SetDefault("SMTP_USE_SSL", true)
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("KAFKA_REORDER_TOPIC", "stockcast.reorders")

	v.SetDefault("GOOGLE_DRIVE_CREDENTIALS_JSON", "")
	v.SetDefault("DRIVE_WORKBOOK_FILE_ID", "")

	v.SetDefault("DEFAULT_LEAD_TIME_DAYS", 7)
	v.SetDefault("OVERVIEW_WORKERS", 4)
}

// Build maps the keys held by v into a Config.
func Build(v *viper.Viper) *Config {
	return &Config{
		Server: ServerConfig{
			Port:           v.GetString("SERVER_PORT"),
			Mode:           v.GetString("SERVER_MODE"),
			LogFormat:      v.GetString("LOG_FORMAT"),
			LogLevel:       v.GetString("LOG_LEVEL"),
			ReadTimeout:    v.GetInt("SERVER_READ_TIMEOUT"),
			WriteTimeout:   v.GetInt("SERVER_WRITE_TIMEOUT"),
			AllowedOrigins: v.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
		},
		Data: DataConfig{
			Source:           strings.ToLower(v.GetString("DATA_SOURCE")),
			WorkbookPath:     v.GetString("DATA_WORKBOOK_PATH"),
			Products:         splitList(v.GetString("DATA_PRODUCTS")),
			InventorySheet:   v.GetString("DATA_INVENTORY_SHEET"),
			ProductInfoSheet: v.GetString("DATA_PRODUCT_INFO_SHEET"),
			DateDayFirst:     v.GetBool("DATA_DATE_DAY_FIRST"),
		},
		Database: DatabaseConfig{
			Driver:   v.GetString("DB_DRIVER"),
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
			MaxConns: v.GetInt("DB_MAX_CONNS"),
		},
		Artifacts: ArtifactConfig{
			Dir:         v.GetString("ARTIFACT_DIR"),
			SyncEnabled: v.GetBool("ARTIFACT_SYNC_ENABLED"),
			Endpoint:    v.GetString("ARTIFACT_S3_ENDPOINT"),
			AccessKey:   v.GetString("ARTIFACT_S3_ACCESS_KEY"),
			SecretKey:   v.GetString("ARTIFACT_S3_SECRET_KEY"),
			Bucket:      v.GetString("ARTIFACT_S3_BUCKET"),
			Prefix:      v.GetString("ARTIFACT_S3_PREFIX"),
			UseSSL:      v.GetBool("ARTIFACT_S3_USE_SSL"),
		},
		Cache: CacheConfig{
			Enabled:            v.GetBool("CACHE_ENABLED"),
			RedisURL:           v.GetString("REDIS_URL"),
			RedisHost:          v.GetString("REDIS_HOST"),
			RedisPort:          v.GetString("REDIS_PORT"),
			RedisPassword:      v.GetString("REDIS_PASSWORD"),
			RedisDB:            v.GetInt("REDIS_DB"),
			ForecastTTLSeconds: v.GetInt("CACHE_FORECAST_TTL_SECONDS"),
		},
		Notify: NotifyConfig{
			Channel:      strings.ToLower(v.GetString("NOTIFY_CHANNEL")),
			SMTPHost:     v.GetString("SMTP_HOST"),
			SMTPPort:     v.GetInt("SMTP_PORT"),
			SMTPUsername: v.GetString("SMTP_USERNAME"),
			SMTPPassword: v.GetString("SMTP_PASSWORD"),
			SMTPFrom:     v.GetString("SMTP_FROM"),
			SMTPUseSSL:   v.GetBool("SMTP_USE_SSL"),
			KafkaBrokers: splitList(v.GetString("KAFKA_BROKERS")),
			KafkaTopic:   v.GetString("KAFKA_REORDER_TOPIC"),
		},
		Drive: DriveConfig{
			CredentialsJSON: v.GetString("GOOGLE_DRIVE_CREDENTIALS_JSON"),
			WorkbookFileID:  v.GetString("DRIVE_WORKBOOK_FILE_ID"),
		},
		Replenishment: ReplenishmentConfig{
			DefaultLeadTime: v.GetInt("DEFAULT_LEAD_TIME_DAYS"),
			OverviewWorkers: v.GetInt("OVERVIEW_WORKERS"),
		},
	}
}

// splitList turns a comma-separated value into trimmed, non-empty entries.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func ensureDir(dir string) {
	if dir == "" {
		return
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Failed to create directory %s: %v", dir, err)
		}
	}
}
