package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration required by the API process.
// All values must come from env (or an env-file loaded at startup).
// No business logic should depend on raw environment variables.
type Config struct {
	App       AppConfig
	Mongo     MongoConfig
	Redis     RedisConfig
	Auth      AuthConfig
	Google    GoogleConfig
	Bootstrap BootstrapConfig
	Blob      BlobConfig
}

type AppConfig struct {
	Env  string
	Port int
}

type MongoConfig struct {
	URI      string
	Database string
}

// RedisConfig is optional: when Host is empty the login limiter is disabled.
type RedisConfig struct {
	Host string
	Port int
}

type AuthConfig struct {
	JWTSecret  string
	JWTIssuer  string
	SessionTTL time.Duration

	// Login throttling at the admin credential exchange.
	LoginAttemptLimit  int
	LoginAttemptWindow time.Duration
}

// GoogleConfig configures the delegated identity verifier.
// ClientID is the expected audience of incoming Google ID tokens.
type GoogleConfig struct {
	ClientID string
}

// BootstrapConfig seeds the first superadmin when none exists.
type BootstrapConfig struct {
	SuperadminName     string
	SuperadminEmail    string
	SuperadminPassword string
}

type BlobConfig struct {
	// Backend selects the image store: "disk" or "gcs".
	Backend string
	// GCS settings.
	Bucket string
	// Disk settings.
	Dir     string
	BaseURL string
}

func Load() (Config, error) {
	c := Config{}
	var parseErrs []error

	c.App.Env = strings.TrimSpace(os.Getenv("APP_ENV"))
	{
		n, err := mustInt("APP_PORT")
		n, parseErrs = appendParseErr(parseErrs, n, err)
		c.App.Port = n
	}

	c.Mongo.URI = strings.TrimSpace(os.Getenv("MONGODB_URI"))
	c.Mongo.Database = strings.TrimSpace(os.Getenv("MONGODB_DATABASE"))

	c.Redis.Host = strings.TrimSpace(os.Getenv("REDIS_HOST"))
	if c.Redis.Host != "" {
		n, err := mustInt("REDIS_PORT")
		n, parseErrs = appendParseErr(parseErrs, n, err)
		c.Redis.Port = n
	}

	c.Auth.JWTSecret = os.Getenv("JWT_SECRET")
	c.Auth.JWTIssuer = strings.TrimSpace(os.Getenv("JWT_ISSUER"))
	// Duration env vars are optional; defaults applied in Validate().
	c.Auth.SessionTTL = optionalDuration("JWT_SESSION_TTL")
	c.Auth.LoginAttemptLimit = optionalInt("LOGIN_ATTEMPT_LIMIT")
	c.Auth.LoginAttemptWindow = optionalDuration("LOGIN_ATTEMPT_WINDOW")

	c.Google.ClientID = strings.TrimSpace(os.Getenv("GOOGLE_CLIENT_ID"))

	c.Bootstrap.SuperadminName = strings.TrimSpace(os.Getenv("SUPER_ADMIN_NAME"))
	c.Bootstrap.SuperadminEmail = strings.TrimSpace(os.Getenv("SUPER_ADMIN_EMAIL"))
	c.Bootstrap.SuperadminPassword = os.Getenv("SUPER_ADMIN_PASSWORD")

	c.Blob.Backend = strings.TrimSpace(os.Getenv("BLOB_BACKEND"))
	c.Blob.Bucket = strings.TrimSpace(os.Getenv("BLOB_GCS_BUCKET"))
	c.Blob.Dir = strings.TrimSpace(os.Getenv("BLOB_DISK_DIR"))
	c.Blob.BaseURL = strings.TrimSpace(os.Getenv("BLOB_DISK_BASE_URL"))

	if err := joinErrors(parseErrs); err != nil {
		return Config{}, err
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c *Config) Validate() error {
	var errs []error

	if c.App.Env == "" {
		errs = append(errs, errors.New("APP_ENV is required"))
	} else if !isValidEnv(c.App.Env) {
		errs = append(errs, fmt.Errorf("APP_ENV must be one of local, dev, staging, production, got %q", c.App.Env))
	}
	if c.App.Port <= 0 || c.App.Port > 65535 {
		errs = append(errs, fmt.Errorf("APP_PORT must be a valid port, got %d", c.App.Port))
	}

	if c.Mongo.URI == "" {
		errs = append(errs, errors.New("MONGODB_URI is required"))
	}
	if c.Mongo.Database == "" {
		errs = append(errs, errors.New("MONGODB_DATABASE is required"))
	}

	if c.Redis.Host != "" && (c.Redis.Port <= 0 || c.Redis.Port > 65535) {
		errs = append(errs, fmt.Errorf("REDIS_PORT must be a valid port, got %d", c.Redis.Port))
	}

	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.IsProduction() && c.Auth.JWTIssuer == "" {
		errs = append(errs, errors.New("JWT_ISSUER is required in production"))
	}
	if c.Auth.SessionTTL <= 0 {
		// Admin sessions are re-established from credentials; keep them short.
		c.Auth.SessionTTL = 12 * time.Hour
	}
	if c.Auth.LoginAttemptLimit <= 0 {
		c.Auth.LoginAttemptLimit = 5
	}
	if c.Auth.LoginAttemptWindow <= 0 {
		c.Auth.LoginAttemptWindow = 15 * time.Minute
	}

	if c.Google.ClientID == "" && c.IsProduction() {
		errs = append(errs, errors.New("GOOGLE_CLIENT_ID is required in production"))
	}

	// Bootstrap defaults cover local development; production must set the
	// password explicitly.
	if c.Bootstrap.SuperadminName == "" {
		c.Bootstrap.SuperadminName = "Super Admin"
	}
	if c.Bootstrap.SuperadminEmail == "" {
		c.Bootstrap.SuperadminEmail = "admin@gramsewa.com"
	}
	if c.Bootstrap.SuperadminPassword == "" {
		if c.IsProduction() {
			errs = append(errs, errors.New("SUPER_ADMIN_PASSWORD is required in production"))
		} else {
			c.Bootstrap.SuperadminPassword = "SuperAdmin@123"
		}
	}

	switch c.Blob.Backend {
	case "":
		if c.IsProduction() {
			errs = append(errs, errors.New("BLOB_BACKEND is required in production"))
		} else {
			c.Blob.Backend = "disk"
		}
	case "disk", "gcs":
	default:
		errs = append(errs, fmt.Errorf("BLOB_BACKEND must be one of disk, gcs, got %q", c.Blob.Backend))
	}
	if c.Blob.Backend == "gcs" && c.Blob.Bucket == "" {
		errs = append(errs, errors.New("BLOB_GCS_BUCKET is required when BLOB_BACKEND=gcs"))
	}
	if c.Blob.Backend == "disk" {
		if c.Blob.Dir == "" {
			c.Blob.Dir = "uploads"
		}
		if c.Blob.BaseURL == "" {
			c.Blob.BaseURL = fmt.Sprintf("http://localhost:%d/uploads", c.App.Port)
		}
	}

	return joinErrors(errs)
}

func (c Config) IsProduction() bool {
	return c.App.Env == "production"
}

func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.App.Port)
}

func (c Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

// RedisEnabled reports whether a redis endpoint was configured at all.
func (c Config) RedisEnabled() bool {
	return c.Redis.Host != ""
}

func mustInt(key string) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0, fmt.Errorf("%s is required", key)
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, v)
	}
	return n, nil
}

func optionalInt(key string) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}

func optionalDuration(key string) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0
	}
	return d
}

func appendParseErr(errs []error, n int, err error) (int, []error) {
	if err != nil {
		errs = append(errs, err)
	}
	return n, errs
}

func isValidEnv(v string) bool {
	switch v {
	case "local", "dev", "staging", "production":
		return true
	default:
		return false
	}
}

func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}
	var b strings.Builder
	b.WriteString("config errors:\n")
	for _, e := range errs {
		b.WriteString("- ")
		b.WriteString(e.Error())
		b.WriteString("\n")
	}
	return errors.New(strings.TrimSpace(b.String()))
}
