package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Game     GameConfig     `mapstructure:"game"     validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port           int      `mapstructure:"port"            validate:"required,gt=0,lt=65536"`
	LogLevel       string   `mapstructure:"log_level"       validate:"required,oneof=debug info warn error"`
	LogFormat      string   `mapstructure:"log_format"      validate:"omitempty,oneof=json text"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret                   string `mapstructure:"jwt_secret"                     validate:"required,min=32"`
	TokenLifetimeMinutes        int    `mapstructure:"token_lifetime_minutes"         validate:"required,gt=0"`
	RefreshTokenLifetimeMinutes int    `mapstructure:"refresh_token_lifetime_minutes" validate:"required,gtfield=TokenLifetimeMinutes"`
	BCryptCost                  int    `mapstructure:"bcrypt_cost"                    validate:"required,gte=4,lte=31"`
	CookieSecure                bool   `mapstructure:"cookie_secure"`
	LoginRatePerMinute          int    `mapstructure:"login_rate_per_minute"          validate:"required,gt=0"`
	LoginBurst                  int    `mapstructure:"login_burst"                    validate:"required,gt=0"`
}

// RedisConfig configures the token revocation store. When Addr is empty
// revocations are kept in process memory.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"     validate:"omitempty,hostname_port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"       validate:"gte=0"`
}

// Enabled reports whether a Redis address is configured.
func (c RedisConfig) Enabled() bool {
	return c.Addr != ""
}

// GameConfig contains the defaults applied to game sessions.
type GameConfig struct {
	DefaultPoolLimit        int `mapstructure:"default_pool_limit"         validate:"required,gt=0"`
	MaxPoolLimit            int `mapstructure:"max_pool_limit"             validate:"required,gtefield=DefaultPoolLimit"`
	DefaultTimeLimitSeconds int `mapstructure:"default_time_limit_seconds" validate:"required,gt=0"`
}
