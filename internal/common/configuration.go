// Copyright (C) 2026 the Resource Catalogue Authors
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.
//
// SPDX-License-Identifier: MIT

// Package common provides configuration management, database initialization,
// error helpers and HTTP endpoint utilities for the resource catalogue. It
// includes support for YAML configuration files, environment variable
// overrides, CORS setup, health endpoints, and PostgreSQL connections with
// connection pooling.
// nolint:all
package common

import (
	"fmt"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/viper"

	"github.com/madgik/resource-catalogue-go/internal/common/log"
)

const redacted = "****"

var configLogger = log.Component("config")

// PrintSplash displays the service logo to the console.
// This function is typically called during application startup to provide
// visual branding and confirm the service is starting.
func PrintSplash() {
	configLogger.Infof(`
	 ____                                         ____      _        _
	|  _ \ ___  ___  ___  _   _ _ __ ___ ___     / ___|__ _| |_ __ _| | ___   __ _ _   _  ___
	| |_) / _ \/ __|/ _ \| | | | '__/ __/ _ \   | |   / _' | __/ _' | |/ _ \ / _' | | | |/ _ \
	|  _ <  __/\__ \ (_) | |_| | | | (_|  __/   | |__| (_| | || (_| | | (_) | (_| | |_| |  __/
	|_| \_\___||___/\___/ \__,_|_|  \___\___|    \____\__,_|\__\__,_|_|\___/ \__, |\__,_|\___|
	                                                                          |___/
	`)
}

// Config represents the complete configuration structure of the catalogue
// service. It combines server settings, storage, CORS policy, authentication,
// catalogue identity and the optional integrations.
type Config struct {
	Server     ServerConfig    `mapstructure:"server" json:"server"`
	Storage    StorageConfig   `mapstructure:"storage" json:"storage"`
	Postgres   PostgresConfig  `mapstructure:"postgres" json:"postgres"`
	CorsConfig CorsConfig      `mapstructure:"cors" json:"cors"`
	OIDC       OIDCConfig      `mapstructure:"oidc" json:"oidc"`
	JWT        JWTConfig       `mapstructure:"jwt" json:"jwt"`
	Catalogue  CatalogueConfig `mapstructure:"catalogue" json:"catalogue"`
	PID        PIDConfig       `mapstructure:"pid" json:"pid"`
	Cache      CacheConfig     `mapstructure:"cache" json:"cache"`
	Events     EventsConfig    `mapstructure:"events" json:"events"`
	Log        LogConfig       `mapstructure:"log" json:"log"`
	Swagger    SwaggerConfig   `mapstructure:"swagger" json:"swagger"`
}

// ServerConfig contains HTTP server configuration parameters.
type ServerConfig struct {
	Port         int    `mapstructure:"port" json:"port"`                 // HTTP server port (default: 8080)
	ContextPath  string `mapstructure:"contextPath" json:"contextPath"`   // Base path for all endpoints
	CacheEnabled bool   `mapstructure:"cacheEnabled" json:"cacheEnabled"` // Enable/disable the record cache
}

// StorageConfig selects the store backend.
type StorageConfig struct {
	Backend string `mapstructure:"backend" json:"backend"` // postgres | memory
}

// PostgresConfig contains PostgreSQL database connection parameters.
// It includes connection pooling settings for optimal performance.
type PostgresConfig struct {
	Host                   string `mapstructure:"host" json:"host"`
	Port                   int    `mapstructure:"port" json:"port"`
	User                   string `mapstructure:"user" json:"user"`
	Password               string `mapstructure:"password" json:"password"`
	DBName                 string `mapstructure:"dbname" json:"dbname"`
	Driver                 string `mapstructure:"driver" json:"driver"` // postgres (lib/pq) | pgx
	MaxOpenConnections     int    `mapstructure:"maxOpenConnections" json:"maxOpenConnections"`
	MaxIdleConnections     int    `mapstructure:"maxIdleConnections" json:"maxIdleConnections"`
	ConnMaxLifetimeMinutes int    `mapstructure:"connMaxLifetimeMinutes" json:"connMaxLifetimeMinutes"`
	Migrate                bool   `mapstructure:"migrate" json:"migrate"` // run embedded migrations on start
}

// DSN builds the connection string of the configured database.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable", p.User, p.Password, p.Host, p.Port, p.DBName)
}

// CorsConfig contains Cross-Origin Resource Sharing (CORS) policy settings.
type CorsConfig struct {
	AllowedOrigins   []string `mapstructure:"allowedOrigins" json:"allowedOrigins"`
	AllowedMethods   []string `mapstructure:"allowedMethods" json:"allowedMethods"`
	AllowedHeaders   []string `mapstructure:"allowedHeaders" json:"allowedHeaders"`
	AllowCredentials bool     `mapstructure:"allowCredentials" json:"allowCredentials"`
}

// OIDCConfig contains OpenID Connect authentication provider settings.
type OIDCConfig struct {
	Enabled  bool   `mapstructure:"enabled" json:"enabled"`
	Issuer   string `mapstructure:"issuer" json:"issuer"`     // OIDC issuer URL
	Audience string `mapstructure:"audience" json:"audience"` // Expected token audience
	JWKSFile string `mapstructure:"jwksFile" json:"jwksFile"` // Static key set, skips discovery when set
}

// JWTConfig configures HMAC-signed bearer tokens.
type JWTConfig struct {
	Enabled bool   `mapstructure:"enabled" json:"enabled"`
	Secret  string `mapstructure:"secret" json:"secret"`
	Issuer  string `mapstructure:"issuer" json:"issuer"`
}

// ResourceConfig holds per-kind settings.
type ResourceConfig struct {
	IDPrefix string `mapstructure:"idPrefix" json:"idPrefix"`
}

// CatalogueConfig describes the catalogue this instance hosts.
type CatalogueConfig struct {
	ID                string                    `mapstructure:"id" json:"id"`
	Name              string                    `mapstructure:"name" json:"name"`
	Homepage          string                    `mapstructure:"homepage" json:"homepage"`
	RegistrationEmail string                    `mapstructure:"registrationEmail" json:"registrationEmail"`
	Admins            []string                  `mapstructure:"admins" json:"admins"`
	OnboardingTeam    []string                  `mapstructure:"onboardingTeam" json:"onboardingTeam"`
	Resources         map[string]ResourceConfig `mapstructure:"resources" json:"resources"`
	AuditingInterval  int                       `mapstructure:"auditingInterval" json:"auditingInterval"` // months
}

// IDPrefix returns the configured id prefix of a resource kind, or "non".
func (c CatalogueConfig) IDPrefix(resourceType string) string {
	if rc, ok := c.Resources[resourceType]; ok && rc.IDPrefix != "" {
		return rc.IDPrefix
	}
	return "non"
}

// PIDConfig configures handle registration.
type PIDConfig struct {
	Enabled             bool              `mapstructure:"enabled" json:"enabled"`
	Endpoint            string            `mapstructure:"endpoint" json:"endpoint"`
	User                string            `mapstructure:"user" json:"user"`
	UserIndex           string            `mapstructure:"userIndex" json:"userIndex"`
	Password            string            `mapstructure:"password" json:"password"`
	MarketplaceEndpoint string            `mapstructure:"marketplaceEndpoint" json:"marketplaceEndpoint"`
	Prefixes            map[string]string `mapstructure:"prefixes" json:"prefixes"`
}

// CacheConfig sizes the record and vocabulary caches.
type CacheConfig struct {
	Size           int64 `mapstructure:"size" json:"size"`
	TTLSeconds     int   `mapstructure:"ttlSeconds" json:"ttlSeconds"`
	VocabularySize int   `mapstructure:"vocabularySize" json:"vocabularySize"`
}

// EventsConfig configures the notification websocket.
type EventsConfig struct {
	Enabled bool   `mapstructure:"enabled" json:"enabled"`
	Path    string `mapstructure:"path" json:"path"`
	Buffer  int    `mapstructure:"buffer" json:"buffer"`
}

// LogConfig configures the root logger.
type LogConfig struct {
	Level   string `mapstructure:"level" json:"level"`
	NoColor bool   `mapstructure:"noColor" json:"noColor"`
	UTC     bool   `mapstructure:"utc" json:"utc"`
}

// SwaggerConfig toggles the API documentation endpoints.
type SwaggerConfig struct {
	Enabled bool `mapstructure:"enabled" json:"enabled"`
}

// LoadConfig loads the configuration from YAML files and environment variables.
//
// The function supports multiple configuration sources with the following precedence:
// 1. Environment variables (highest priority)
// 2. Configuration file (if provided)
// 3. Default values (lowest priority)
//
// Environment variables should use underscore notation (e.g., SERVER_PORT for server.port).
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		configLogger.Infof("📁 Loading config from file: %s", configPath)
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		configLogger.Info("📁 No config file provided, loading from environment variables only")
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := new(Config)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	configLogger.Info("✅ Configuration loaded successfully")
	PrintConfiguration(cfg)
	return cfg, nil
}

// setDefaults configures default values that let the service start against a
// local database without a configuration file.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.contextPath", "")
	v.SetDefault("server.cacheEnabled", true)

	v.SetDefault("storage.backend", "postgres")

	v.SetDefault("postgres.host", "db")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.user", "admin")
	v.SetDefault("postgres.password", "admin123")
	v.SetDefault("postgres.dbname", "catalogue")
	v.SetDefault("postgres.driver", "postgres")
	v.SetDefault("postgres.maxOpenConnections", 50)
	v.SetDefault("postgres.maxIdleConnections", 50)
	v.SetDefault("postgres.connMaxLifetimeMinutes", 5)
	v.SetDefault("postgres.migrate", true)

	v.SetDefault("cors.allowedOrigins", []string{"*"})
	v.SetDefault("cors.allowedMethods", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowedHeaders", []string{"*"})
	v.SetDefault("cors.allowCredentials", true)

	v.SetDefault("oidc.enabled", false)
	v.SetDefault("oidc.issuer", "http://localhost:8081/realms/catalogue")
	v.SetDefault("oidc.audience", "resource-catalogue")
	v.SetDefault("oidc.jwksFile", "")

	v.SetDefault("jwt.enabled", false)
	v.SetDefault("jwt.issuer", "resource-catalogue")

	v.SetDefault("catalogue.id", "eosc")
	v.SetDefault("catalogue.name", "EOSC")
	v.SetDefault("catalogue.registrationEmail", "registration@catalogue.local")
	v.SetDefault("catalogue.auditingInterval", 6)
	v.SetDefault("catalogue.resources", map[string]interface{}{
		"provider":                         map[string]interface{}{"idPrefix": "21.T15999"},
		"service":                          map[string]interface{}{"idPrefix": "21.T15999"},
		"training_resource":                map[string]interface{}{"idPrefix": "21.T15999"},
		"deployable_service":               map[string]interface{}{"idPrefix": "21.T15999"},
		"interoperability_record":          map[string]interface{}{"idPrefix": "21.T15999"},
		"adapter":                          map[string]interface{}{"idPrefix": "21.T15999"},
		"catalogue":                        map[string]interface{}{"idPrefix": "21.T15999"},
		"datasource":                       map[string]interface{}{"idPrefix": "dat"},
		"helpdesk":                         map[string]interface{}{"idPrefix": "hel"},
		"monitoring":                       map[string]interface{}{"idPrefix": "mon"},
		"resource_interoperability_record": map[string]interface{}{"idPrefix": "rir"},
		"configuration_template":           map[string]interface{}{"idPrefix": "cot"},
		"configuration_template_instance":  map[string]interface{}{"idPrefix": "cti"},
		"event":                            map[string]interface{}{"idPrefix": "evt"},
		"vocabulary":                       map[string]interface{}{"idPrefix": "voc"},
	})

	v.SetDefault("pid.enabled", false)
	v.SetDefault("pid.userIndex", "300")

	v.SetDefault("cache.size", 5000)
	v.SetDefault("cache.ttlSeconds", 300)
	v.SetDefault("cache.vocabularySize", 1024)

	v.SetDefault("events.enabled", true)
	v.SetDefault("events.path", "/events")
	v.SetDefault("events.buffer", 64)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.noColor", false)
	v.SetDefault("log.utc", false)

	v.SetDefault("swagger.enabled", true)
}

// PrintConfiguration prints the current configuration with credentials redacted.
func PrintConfiguration(cfg *Config) {
	cfgCopy := *cfg

	if cfg.Postgres.Host != "" {
		cfgCopy.Postgres.Host = redacted
		cfgCopy.Postgres.User = redacted
		cfgCopy.Postgres.Password = redacted
	}
	if cfg.JWT.Secret != "" {
		cfgCopy.JWT.Secret = redacted
	}
	if cfg.PID.Password != "" {
		cfgCopy.PID.Password = redacted
	}

	configJSON, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(cfgCopy, "", "  ")
	if err != nil {
		configLogger.Warnf("Unable to marshal configuration to JSON: %v", err)
		return
	}

	configLogger.Debugf("📜 Loaded configuration:\n%s", string(configJSON))
}

// AddCors configures Cross-Origin Resource Sharing (CORS) middleware for the router.
func AddCors(r chi.Router, config *Config) {
	c := cors.New(cors.Options{
		AllowedOrigins:   config.CorsConfig.AllowedOrigins,
		AllowedMethods:   config.CorsConfig.AllowedMethods,
		AllowedHeaders:   config.CorsConfig.AllowedHeaders,
		AllowCredentials: config.CorsConfig.AllowCredentials,
	})
	r.Use(c.Handler)
}
