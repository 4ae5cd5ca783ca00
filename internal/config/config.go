package config

import (
	"errors"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config holds runtime configuration loaded from environment variables.
type Config struct {
	DatabaseURL       string   `env:"DATABASE_URL"`
	SupabaseDBURL     string   `env:"SUPABASE_DB_URL"`
	Port              string   `env:"PORT" envDefault:"3001"`
	JWTSecret         string   `env:"JWT_SECRET"`
	JWTIssuer         string   `env:"JWT_ISSUER" envDefault:"eventhubble"`
	AccessTTLSeconds  int64    `env:"ACCESS_TTL_SECONDS" envDefault:"14400"`
	RefreshTTLSeconds int64    `env:"REFRESH_TTL_SECONDS" envDefault:"1209600"`
	CorsOrigins       []string `env:"CORS_ORIGINS" envSeparator:","`
	CookieSecure      bool     `env:"COOKIE_SECURE" envDefault:"true"`

	RedisURL        string `env:"REDIS_URL"`
	CacheMaxEntries int    `env:"CACHE_MAX_ENTRIES" envDefault:"2048"`

	UploadsDir string `env:"UPLOADS_DIR" envDefault:"public/uploads"`
	PublicDir  string `env:"PUBLIC_DIR" envDefault:"public"`

	AssetTarget         string `env:"ASSET_TARGET" envDefault:"cloudinary"`
	CloudinaryCloudName string `env:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey    string `env:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret string `env:"CLOUDINARY_API_SECRET"`
	CloudinaryFolder    string `env:"CLOUDINARY_FOLDER" envDefault:"eventhubble"`
	S3Bucket            string `env:"S3_BUCKET"`
	S3Region            string `env:"S3_REGION" envDefault:"us-east-1"`
	S3Endpoint          string `env:"S3_ENDPOINT"`
	S3AccessKey         string `env:"S3_ACCESS_KEY"`
	S3SecretKey         string `env:"S3_SECRET_KEY"`
	S3PublicURL         string `env:"S3_PUBLIC_URL"`

	ScraperSourcesFile string `env:"SCRAPER_SOURCES_FILE"`
	ScraperSchedule    string `env:"SCRAPER_SCHEDULE" envDefault:"0 0 */6 * * *"`
	AnalyticsRetention int    `env:"ANALYTICS_RETENTION_DAYS" envDefault:"180"`

	MetricsDiskPath  string `env:"METRICS_DISK_PATH" envDefault:"/"`
	LogDir           string `env:"LOG_DIR" envDefault:"storage/logs"`
	LogRetentionDays int    `env:"LOG_RETENTION_DAYS" envDefault:"7"`

	AdminEmail    string `env:"ADMIN_EMAIL"`
	AdminPassword string `env:"ADMIN_PASSWORD"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		cfg.DatabaseURL = strings.TrimSpace(cfg.SupabaseDBURL)
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("missing env var: DATABASE_URL")
	}
	cfg.CorsOrigins = cleanList(cfg.CorsOrigins)
	return cfg, nil
}

// RequireServer checks the values only the HTTP server needs.
func (c Config) RequireServer() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return errors.New("missing env var: JWT_SECRET")
	}
	return nil
}

func cleanList(items []string) []string {
	if len(items) == 0 {
		return nil
	}
	cleaned := make([]string, 0, len(items))
	for _, item := range items {
		value := strings.TrimSpace(item)
		if value != "" {
			cleaned = append(cleaned, value)
		}
	}
	return cleaned
}
