package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App      AppConfig
	Storage  StorageConfig
	DB       DBConfig
	Mongo    MongoConfig
	Auth     AuthConfig
	Identity IdentityConfig
	Session  SessionConfig
	JWT      JWTConfig
	HTTP     HTTPConfig
	Clients  ClientsConfig
	Export   ExportConfig
	Sentry   SentryConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// Backends de almacenamiento soportados.
const (
	BackendLocal    = "local"
	BackendPostgres = "postgres"
	BackendMongo    = "mongo"
	BackendSQLite   = "sqlite"
)

// StorageConfig selecciona el adaptador del Record Store.
type StorageConfig struct {
	Backend    string // local, postgres, mongo, sqlite
	LocalPath  string // documento JSON del backend local
	SeedPath   string // YAML opcional con datos iniciales
	SQLitePath string
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
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

// MongoConfig base de datos documental remota.
type MongoConfig struct {
	URI      string
	Database string
}

// Modos de verificación de credenciales.
const (
	AuthModePlain    = "plain"
	AuthModeSHA256   = "sha256"
	AuthModeBcrypt   = "bcrypt"
	AuthModeProvider = "provider"
)

// AuthConfig política de credenciales y cuenta inicial.
type AuthConfig struct {
	Mode                string // plain, sha256, bcrypt, provider
	AllowInviteClaim    bool
	BootstrapIdentifier string
	BootstrapName       string
	BootstrapSecret     string // vacío = se genera
}

// IdentityConfig proveedor de identidad externo (solo AUTH_MODE=provider).
type IdentityConfig struct {
	BaseURL        string
	APIKey         string
	TimeoutSeconds int
}

// SessionConfig almacenamiento local duradero de la sesión (CLI).
type SessionConfig struct {
	Dir string
}

// JWTConfig configuración de JWT.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host        string
	Port        int
	CORSOrigins string
	LoginPerMin int // intentos de login por minuto e IP
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Políticas de teléfono duplicado en clientes.
const (
	PhonePolicyAdvisory = "advisory"
	PhonePolicyStrict   = "strict"
)

// ClientsConfig reglas del directorio de clientes.
type ClientsConfig struct {
	PhonePolicy string // advisory, strict
	MatchPhone  bool   // la búsqueda también compara el teléfono
}

// ExportConfig codificación y archivo de las exportaciones.
type ExportConfig struct {
	Encoding   string // utf-8, windows-1252
	Archive    string // "", local, s3
	ArchiveDir string
	S3         S3Config
}

// S3Config bucket compatible con S3 para archivar exportaciones.
type S3Config struct {
	Bucket   string
	Region   string
	Endpoint string
	KeyID    string
	AppKey   string
}

// SentryConfig reporte de errores (opcional).
type SentryConfig struct {
	DSN string
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, STORAGE_BACKEND, AUTH_MODE, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return FromViper(v)
}

// FromViper construye la configuración desde una instancia de Viper ya cargada.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "visitas-api"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		Storage: StorageConfig{
			Backend:    strings.ToLower(getString(v, "STORAGE_BACKEND", BackendLocal)),
			LocalPath:  getString(v, "LOCAL_DATA_PATH", filepath.Join("data", "vendor_app_data.json")),
			SeedPath:   getString(v, "SEED_PATH", ""),
			SQLitePath: getString(v, "SQLITE_PATH", filepath.Join("data", "visitas.db")),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "visitas"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
		},
		Mongo: MongoConfig{
			URI:      getString(v, "MONGO_URI", "mongodb://localhost:27017"),
			Database: getString(v, "MONGO_DATABASE", "visitas"),
		},
		Auth: AuthConfig{
			Mode:                strings.ToLower(getString(v, "AUTH_MODE", AuthModeBcrypt)),
			AllowInviteClaim:    getBool(v, "AUTH_ALLOW_INVITE_CLAIM", true),
			BootstrapIdentifier: getString(v, "AUTH_BOOTSTRAP_IDENTIFIER", "admin"),
			BootstrapName:       getString(v, "AUTH_BOOTSTRAP_NAME", "Administrador Inicial"),
			BootstrapSecret:     getString(v, "AUTH_BOOTSTRAP_SECRET", ""),
		},
		Identity: IdentityConfig{
			BaseURL:        getString(v, "IDENTITY_BASE_URL", "https://identitytoolkit.googleapis.com"),
			APIKey:         getString(v, "IDENTITY_API_KEY", ""),
			TimeoutSeconds: getInt(v, "IDENTITY_TIMEOUT_SECONDS", 10),
		},
		Session: SessionConfig{
			Dir: getString(v, "SESSION_DIR", defaultSessionDir()),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 480),
			Issuer:     getString(v, "JWT_ISSUER", "visitas-api"),
		},
		HTTP: HTTPConfig{
			Host:        getString(v, "HTTP_HOST", "0.0.0.0"),
			Port:        getInt(v, "HTTP_PORT", 8080),
			CORSOrigins: getString(v, "HTTP_CORS_ORIGINS", "*"),
			LoginPerMin: getInt(v, "HTTP_LOGIN_PER_MINUTE", 10),
		},
		Clients: ClientsConfig{
			PhonePolicy: strings.ToLower(getString(v, "CLIENTS_PHONE_POLICY", PhonePolicyAdvisory)),
			MatchPhone:  getBool(v, "CLIENTS_MATCH_PHONE", false),
		},
		Export: ExportConfig{
			Encoding:   strings.ToLower(getString(v, "EXPORT_ENCODING", "utf-8")),
			Archive:    strings.ToLower(getString(v, "EXPORT_ARCHIVE", "")),
			ArchiveDir: getString(v, "EXPORT_ARCHIVE_DIR", filepath.Join("data", "exports")),
			S3: S3Config{
				Bucket:   getString(v, "S3_BUCKET", ""),
				Region:   getString(v, "S3_REGION", "us-east-1"),
				Endpoint: getString(v, "S3_ENDPOINT", ""),
				KeyID:    getString(v, "S3_KEY_ID", ""),
				AppKey:   getString(v, "S3_APP_KEY", ""),
			},
		},
		Sentry: SentryConfig{
			DSN: getString(v, "SENTRY_DSN", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rechaza valores fuera de los conjuntos soportados.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendLocal, BackendPostgres, BackendMongo, BackendSQLite:
	default:
		return fmt.Errorf("config: STORAGE_BACKEND desconocido %q", c.Storage.Backend)
	}
	switch c.Auth.Mode {
	case AuthModePlain, AuthModeSHA256, AuthModeBcrypt:
	case AuthModeProvider:
		if c.Identity.APIKey == "" {
			return fmt.Errorf("config: IDENTITY_API_KEY requerido con AUTH_MODE=provider")
		}
	default:
		return fmt.Errorf("config: AUTH_MODE desconocido %q", c.Auth.Mode)
	}
	switch c.Clients.PhonePolicy {
	case PhonePolicyAdvisory, PhonePolicyStrict:
	default:
		return fmt.Errorf("config: CLIENTS_PHONE_POLICY desconocida %q", c.Clients.PhonePolicy)
	}
	switch c.Export.Encoding {
	case "utf-8", "windows-1252":
	default:
		return fmt.Errorf("config: EXPORT_ENCODING desconocida %q", c.Export.Encoding)
	}
	switch c.Export.Archive {
	case "", "local":
	case "s3":
		if c.Export.S3.Bucket == "" {
			return fmt.Errorf("config: S3_BUCKET requerido con EXPORT_ARCHIVE=s3")
		}
	default:
		return fmt.Errorf("config: EXPORT_ARCHIVE desconocido %q", c.Export.Archive)
	}
	return nil
}

func defaultSessionDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".visitas"
	}
	return filepath.Join(home, ".visitas")
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
			n, err := strconv.Atoi(v.GetString(key))
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

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		return v.GetBool(key)
	}
	return def
}
