package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación, leída con Viper desde el
// entorno y opcionalmente desde un archivo .env/config.env.
type Config struct {
	App      AppConfig
	DB       DBConfig
	JWT      JWTConfig
	HTTP     HTTPConfig
	Branding BrandingConfig
	Catalog  CatalogConfig
	AI       AIConfig
	Storage  StorageConfig
	Mail     MailConfig
	Output   OutputConfig
}

// AppConfig configuración general.
type AppConfig struct {
	Env  string // development, staging, production
	Name string
	// LogLevel: trace, debug, info, warn, error.
	LogLevel string
}

// DBConfig elige el backend del registro. El driver "memory" guarda las filas en
// el proceso; "postgres" usa la configuración de conexión de abajo.
// Si DatabaseURL está definido se usa tal cual como cadena de conexión.
type DBConfig struct {
	Driver      string
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	Migrations  string // URL de origen para golang-migrate
	MaxConns    int
}

// UsePostgres indica si se eligieron los repositorios postgres.
func (c DBConfig) UsePostgres() bool { return c.Driver == "postgres" }

// ConnectionString devuelve DatabaseURL si está definido, si no DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN arma la URL de PostgreSQL, escapando caracteres especiales de la contraseña.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// JWTConfig configuración. Un Secret vacío desactiva la autenticación.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// Enabled indica si las rutas de escritura exigen token.
func (c JWTConfig) Enabled() bool { return c.Secret != "" }

// HTTPConfig para el servidor de la API.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve host:port.
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// BrandingConfig ubica el logo del membrete: una URL http(s) o una ruta de archivo.
// Vacío significa sin logo.
type BrandingConfig struct {
	LogoSource  string
	LogoTimeout time.Duration
}

// CatalogConfig apunta a un catálogo JSON de artículos. Vacío usa el incorporado.
type CatalogConfig struct {
	File string
}

// AIConfig elige el proveedor de LLM: gemini, openai o anthropic.
type AIConfig struct {
	Provider        string
	GeminiAPIKey    string
	GeminiModel     string
	OpenAIAPIKey    string
	OpenAIModel     string
	AnthropicAPIKey string
	AnthropicModel  string
	Timeout         time.Duration
	RatePerMinute   int
}

// APIKey del proveedor elegido.
func (c AIConfig) APIKey() string {
	switch c.Provider {
	case "openai":
		return c.OpenAIAPIKey
	case "anthropic":
		return c.AnthropicAPIKey
	default:
		return c.GeminiAPIKey
	}
}

// StorageConfig para el bucket S3 que guarda las facturas compartidas. Endpoint
// se define para stores compatibles con S3 (MinIO, R2).
type StorageConfig struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Prefix          string
	PresignTTL      time.Duration
}

// Enabled indica si compartir puede subir archivos.
func (c StorageConfig) Enabled() bool { return c.Bucket != "" }

// MailConfig para SES. Un From vacío desactiva el correo.
type MailConfig struct {
	Region string
	From   string
}

// Enabled indica si los enlaces se pueden enviar por correo.
func (c MailConfig) Enabled() bool { return c.From != "" }

// OutputConfig es donde se guardan los PDF generados.
type OutputConfig struct {
	Dir string
}

// Load lee la configuración. Las variables de entorno ganan sobre los archivos.
// Nombres esperados: APP_ENV, DB_DRIVER, DB_HOST, JWT_SECRET, AI_PROVIDER, S3_BUCKET, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Archivos de configuración opcionales (.env o config.env).
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig()

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "asha-billing"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		DB: DBConfig{
			Driver:      strings.ToLower(getString(v, "DB_DRIVER", "memory")),
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "asha_billing"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
			Migrations:  getString(v, "DB_MIGRATIONS", "file://db/migrations"),
			MaxConns:    getInt(v, "DB_MAX_CONNS", 10),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 720),
			Issuer:     getString(v, "JWT_ISSUER", "asha-billing"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Branding: BrandingConfig{
			LogoSource:  getString(v, "LOGO_SOURCE", ""),
			LogoTimeout: getDuration(v, "LOGO_TIMEOUT", 5*time.Second),
		},
		Catalog: CatalogConfig{
			File: getString(v, "CATALOG_FILE", ""),
		},
		AI: AIConfig{
			Provider:        strings.ToLower(getString(v, "AI_PROVIDER", "gemini")),
			GeminiAPIKey:    getString(v, "GEMINI_API_KEY", ""),
			GeminiModel:     getString(v, "GEMINI_MODEL", "gemini-1.5-flash"),
			OpenAIAPIKey:    getString(v, "OPENAI_API_KEY", ""),
			OpenAIModel:     getString(v, "OPENAI_MODEL", "gpt-4o-mini"),
			AnthropicAPIKey: getString(v, "ANTHROPIC_API_KEY", ""),
			AnthropicModel:  getString(v, "ANTHROPIC_MODEL", "claude-3-5-haiku-latest"),
			Timeout:         getDuration(v, "AI_TIMEOUT", 30*time.Second),
			RatePerMinute:   getInt(v, "AI_RATE_PER_MINUTE", 15),
		},
		Storage: StorageConfig{
			Bucket:          getString(v, "S3_BUCKET", ""),
			Region:          getString(v, "S3_REGION", "ap-south-1"),
			Endpoint:        getString(v, "S3_ENDPOINT", ""),
			AccessKeyID:     getString(v, "S3_ACCESS_KEY_ID", ""),
			SecretAccessKey: getString(v, "S3_SECRET_ACCESS_KEY", ""),
			Prefix:          getString(v, "S3_PREFIX", "invoices/"),
			PresignTTL:      getDuration(v, "S3_PRESIGN_TTL", 24*time.Hour),
		},
		Mail: MailConfig{
			Region: getString(v, "SES_REGION", "ap-south-1"),
			From:   getString(v, "SES_FROM", ""),
		},
		Output: OutputConfig{
			Dir: getString(v, "OUTPUT_DIR", "./invoices"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DB.Driver {
	case "memory", "postgres":
	default:
		return fmt.Errorf("config: DB_DRIVER must be memory or postgres, got %q", c.DB.Driver)
	}
	switch c.AI.Provider {
	case "gemini", "openai", "anthropic":
	default:
		return fmt.Errorf("config: AI_PROVIDER must be gemini, openai or anthropic, got %q", c.AI.Provider)
	}
	if c.HTTP.Port <= 0 {
		return fmt.Errorf("config: invalid HTTP_PORT %d", c.HTTP.Port)
	}
	return nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getDuration(v *viper.Viper, key string, def time.Duration) time.Duration {
	if !v.IsSet(key) {
		return def
	}
	d, err := time.ParseDuration(strings.TrimSpace(v.GetString(key)))
	if err != nil {
		return def
	}
	return d
}
