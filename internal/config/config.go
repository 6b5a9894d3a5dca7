package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	DB        DBConfig        `mapstructure:"db"`
	Session   SessionConfig   `mapstructure:"session"`
	OAuth     OAuthConfig     `mapstructure:"oauth"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Upload    UploadConfig    `mapstructure:"upload"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Redis     RedisConfig     `mapstructure:"redis"`
	CORS      CORSConfig      `mapstructure:"cors"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Address      string        `mapstructure:"address"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type DBConfig struct {
	Source  string `mapstructure:"source"`
	Migrate bool   `mapstructure:"migrate"`
}

type SessionConfig struct {
	Secret       string        `mapstructure:"secret"`
	TTL          time.Duration `mapstructure:"ttl"`
	CookieName   string        `mapstructure:"cookie_name"`
	SecureCookie bool          `mapstructure:"secure_cookie"`
}

type OAuthConfig struct {
	ClientID     string   `mapstructure:"client_id"`
	ClientSecret string   `mapstructure:"client_secret"`
	RedirectURL  string   `mapstructure:"redirect_url"`
	AuthURL      string   `mapstructure:"auth_url"`
	TokenURL     string   `mapstructure:"token_url"`
	UserAPIURL   string   `mapstructure:"user_api_url"`
	Scopes       []string `mapstructure:"scopes"`
}

type AuthConfig struct {
	AdminGithubIDs []string `mapstructure:"admin_github_ids"`
	AutoApprove    bool     `mapstructure:"auto_approve"`
}

func (a AuthConfig) IsAdmin(githubID string) bool {
	for _, id := range a.AdminGithubIDs {
		if strings.TrimSpace(id) == githubID {
			return true
		}
	}
	return false
}

type StorageConfig struct {
	Driver string      `mapstructure:"driver"`
	Path   string      `mapstructure:"path"`
	Minio  MinioConfig `mapstructure:"minio"`
}

type MinioConfig struct {
	Endpoint     string `mapstructure:"endpoint"`
	AccessKey    string `mapstructure:"access_key"`
	SecretKey    string `mapstructure:"secret_key"`
	Bucket       string `mapstructure:"bucket"`
	Region       string `mapstructure:"region"`
	CreateBucket bool   `mapstructure:"create_bucket"`
}

type UploadConfig struct {
	MaxBytes     int64 `mapstructure:"max_bytes"`
	DefaultQuota int64 `mapstructure:"default_quota"`
}

type RateLimitConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	RPS     float64       `mapstructure:"rps"`
	Burst   int           `mapstructure:"burst"`
	Window  time.Duration `mapstructure:"window"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

const (
	StorageDriverMinio = "minio"
	StorageDriverLocal = "local"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)

	v.SetDefault("db.source", "")
	v.SetDefault("db.migrate", true)

	v.SetDefault("session.secret", "")
	v.SetDefault("session.ttl", 7*24*time.Hour)
	v.SetDefault("session.cookie_name", "session")
	v.SetDefault("session.secure_cookie", true)

	v.SetDefault("oauth.client_id", "")
	v.SetDefault("oauth.client_secret", "")
	v.SetDefault("oauth.redirect_url", "")
	v.SetDefault("oauth.auth_url", "")
	v.SetDefault("oauth.token_url", "")
	v.SetDefault("oauth.user_api_url", "")
	v.SetDefault("oauth.scopes", []string{"read:user"})

	v.SetDefault("auth.admin_github_ids", []string{})
	v.SetDefault("auth.auto_approve", false)

	v.SetDefault("storage.driver", StorageDriverMinio)
	v.SetDefault("storage.path", "./data/blobs")
	v.SetDefault("storage.minio.endpoint", "localhost:9000")
	v.SetDefault("storage.minio.access_key", "")
	v.SetDefault("storage.minio.secret_key", "")
	v.SetDefault("storage.minio.bucket", "svgshare")
	v.SetDefault("storage.minio.region", "")
	v.SetDefault("storage.minio.create_bucket", false)

	v.SetDefault("upload.max_bytes", 2*1024*1024)
	v.SetDefault("upload.default_quota", 100*1024*1024)

	v.SetDefault("ratelimit.enabled", true)
	v.SetDefault("ratelimit.rps", 5.0)
	v.SetDefault("ratelimit.burst", 20)
	v.SetDefault("ratelimit.window", time.Minute)

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "svgshare")

	v.SetDefault("cors.allowed_origins", []string{})

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// Load reads .env, configs/settings.yml and the environment, in increasing
// order of precedence.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.AddConfigPath("./configs")
	v.AddConfigPath("/configs")
	v.SetConfigName("settings")
	v.SetConfigType("yml")

	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.Session.Secret == "" {
		errs = append(errs, errors.New("session.secret is required"))
	}
	if c.DB.Source == "" {
		errs = append(errs, errors.New("db.source is required"))
	}
	if c.Upload.MaxBytes <= 0 {
		errs = append(errs, errors.New("upload.max_bytes must be positive"))
	}
	if c.Upload.DefaultQuota < 0 {
		errs = append(errs, errors.New("upload.default_quota must not be negative"))
	}
	if c.Session.TTL <= 0 {
		errs = append(errs, errors.New("session.ttl must be positive"))
	}
	switch c.Storage.Driver {
	case StorageDriverMinio, StorageDriverLocal:
	default:
		errs = append(errs, fmt.Errorf("unknown storage.driver %q", c.Storage.Driver))
	}
	if c.RateLimit.Enabled && (c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0) {
		errs = append(errs, errors.New("ratelimit.rps and ratelimit.burst must be positive"))
	}
	return errors.Join(errs...)
}
