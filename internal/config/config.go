// Package config carga la configuración del gateway desde YAML, con
// overrides por variables de entorno para lo operativo.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		// dev | staging | prod
		Env string `yaml:"env"`

		// DevMode habilita extensiones de debug en los schemas compilados.
		// Entra en la clave de cache: dev y no-dev se cachean aparte.
		DevMode bool `yaml:"dev_mode"`
	} `yaml:"app"`

	Server struct {
		Addr               string   `yaml:"addr"`
		CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`

		// AdminAPIKey protege los endpoints administrativos de schemas.
		// Vacío deshabilita la administración por HTTP.
		AdminAPIKey string `yaml:"admin_api_key"`
	} `yaml:"server"`

	Storage struct {
		Driver   string `yaml:"driver"` // memory | postgres
		DSN      string `yaml:"dsn"`
		Postgres struct {
			MaxOpenConns    int    `yaml:"max_open_conns"`
			MaxIdleConns    int    `yaml:"max_idle_conns"`
			ConnMaxLifetime string `yaml:"conn_max_lifetime"`
		} `yaml:"postgres"`
	} `yaml:"storage"`

	Cache struct {
		Kind  string `yaml:"kind"` // memory | redis
		Redis struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix"`
		} `yaml:"redis"`

		// LookupTTL staleness máxima de lookups de schema cacheados.
		LookupTTL string `yaml:"lookup_ttl"`
	} `yaml:"cache"`

	Content struct {
		// File YAML con las definiciones de tipos de contenido.
		File string `yaml:"file"`
	} `yaml:"content"`

	GQL struct {
		// PublicSchema bootstrap del schema público al arrancar, si no
		// existe uno. Scope en forma canónica "component:action".
		PublicSchema struct {
			Enabled bool     `yaml:"enabled"`
			Scope   []string `yaml:"scope"`
		} `yaml:"public_schema"`
	} `yaml:"gql"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

func Load(path string) (*Config, error) {
	var c Config
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, err
		}
	}

	// sane defaults
	if c.App.Env == "" {
		c.App.Env = "dev"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "memory"
	}
	if c.Cache.Kind == "" {
		c.Cache.Kind = "memory"
	}
	if c.Cache.LookupTTL == "" {
		c.Cache.LookupTTL = "30s"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}

	// env overrides (operativos)
	c.App.Env = getenv("APP_ENV", c.App.Env)
	c.App.DevMode = getenvBool("DEV_MODE", c.App.DevMode)
	c.Server.Addr = getenv("SERVER_ADDR", c.Server.Addr)
	c.Server.AdminAPIKey = getenv("ADMIN_API_KEY", c.Server.AdminAPIKey)
	c.Storage.Driver = getenv("STORAGE_DRIVER", c.Storage.Driver)
	c.Storage.DSN = getenv("STORAGE_DSN", c.Storage.DSN)
	c.Cache.Kind = getenv("CACHE_KIND", c.Cache.Kind)
	c.Cache.Redis.Addr = getenv("REDIS_ADDR", c.Cache.Redis.Addr)
	c.Content.File = getenv("CONTENT_FILE", c.Content.File)
	c.Log.Level = getenv("LOG_LEVEL", c.Log.Level)

	// validate string durations
	if c.Storage.Postgres.ConnMaxLifetime != "" {
		if _, err := time.ParseDuration(c.Storage.Postgres.ConnMaxLifetime); err != nil {
			return nil, err
		}
	}
	if _, err := time.ParseDuration(c.Cache.LookupTTL); err != nil {
		return nil, err
	}

	return &c, nil
}

// LookupTTL duración parseada (Load ya la validó).
func (c *Config) LookupTTL() time.Duration {
	d, _ := time.ParseDuration(c.Cache.LookupTTL)
	return d
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
