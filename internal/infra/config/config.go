package config

import (
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// AppConfig holds all process configuration, read once at startup.
type AppConfig struct {
	AppEnv string `envconfig:"APP_ENV" default:"dev"`
	Port   int    `envconfig:"PORT" default:"8080"`

	PGDSN     string `envconfig:"PG_DSN" required:"true"`
	RedisAddr string `envconfig:"REDIS_ADDR" required:"true"`

	UploadDir string `envconfig:"UPLOAD_DIR" default:"./uploads"`

	// ViewerHashSalt keys anonymous fingerprints. Missing salt in
	// production is a deployment error, not a runtime condition.
	ViewerHashSalt string `envconfig:"VIEWER_HASH_SALT"`

	AdminEmail    string `envconfig:"ADMIN_EMAIL"`
	AdminPassword string `envconfig:"ADMIN_PASSWORD"`

	CORSOrigins     string `envconfig:"CORS_ORIGINS" default:"http://localhost:3000"`
	CSRFInsecureDev bool   `envconfig:"CSRF_INSECURE_DEV" default:"false"`

	Limits struct {
		APIPerMin        int `envconfig:"RATE_API_PER_MIN" default:"120"`
		EngagementPerMin int `envconfig:"RATE_ENGAGEMENT_PER_MIN" default:"60"`
		WritePerMin      int `envconfig:"RATE_WRITE_PER_MIN" default:"30"`
		UploadPerMin     int `envconfig:"RATE_UPLOAD_PER_MIN" default:"10"`
	} `envconfig:""`

	Cleanup struct {
		IntervalHours int `envconfig:"CLEANUP_INTERVAL_HOURS" default:"6"`
		GraceHours    int `envconfig:"CLEANUP_GRACE_HOURS" default:"24"`
	} `envconfig:""`

	Views struct {
		RetentionDays int `envconfig:"VIEW_RETENTION_DAYS" default:"90"`
	} `envconfig:""`
}

// Load reads .env (when present) and the process environment.
func Load() AppConfig {
	_ = godotenv.Load()
	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.AppEnv != "dev" && cfg.ViewerHashSalt == "" {
		log.Fatal("config: VIEWER_HASH_SALT is required outside dev")
	}
	return cfg
}

// Origins splits the configured comma-separated CORS origin list.
func (c AppConfig) Origins() []string {
	parts := strings.Split(c.CORSOrigins, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
