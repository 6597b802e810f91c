package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/paratransit/pkg/util"
	"gopkg.in/yaml.v3"
)

const defaultConfigPath = "config.yaml"

type Config struct {
	Backend  BackendConfig  `yaml:"backend"`
	Geocoder GeocoderConfig `yaml:"geocoder"`

	// Timezone every booking rule is evaluated in, an IANA name
	Timezone string `yaml:"timezone"`

	Listen string `yaml:"listen"`

	TransformsPath string `yaml:"transforms"`
}

type BackendConfig struct {
	SyncURL        string `yaml:"sync_url"`
	AsyncURL       string `yaml:"async_url"`
	Namespace      string `yaml:"namespace"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type GeocoderConfig struct {
	Endpoint  string `yaml:"endpoint"`
	UserAgent string `yaml:"user_agent"`
	Email     string `yaml:"email"`
}

func Default() *Config {
	return &Config{
		Backend: BackendConfig{
			Namespace:      "http://www.trapezegroup.com/",
			TimeoutSeconds: 60,
		},
		Geocoder: GeocoderConfig{
			Endpoint:  "https://nominatim.openstreetmap.org",
			UserAgent: "paratransit-booking-client",
		},
		Timezone: "America/New_York",
		Listen:   ":8080",
	}
}

// Load reads the YAML config file named by PARATRANSIT_CONFIG (or
// config.yaml when present) and then applies PARATRANSIT_* overrides
func Load() (*Config, error) {
	config := Default()
	env := util.GetEnvironmentVariables()

	path := env["PARATRANSIT_CONFIG"]
	required := path != ""
	if path == "" {
		path = defaultConfigPath
	}

	configYaml, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.NewDecoder(bytes.NewReader(configYaml)).Decode(config); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		log.Debug().Str("path", path).Msg("Loaded config file")
	} else if required || !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	if err := config.applyEnvironment(env); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) applyEnvironment(env map[string]string) error {
	overrides := map[string]*string{
		"PARATRANSIT_BACKEND_SYNC_URL":   &c.Backend.SyncURL,
		"PARATRANSIT_BACKEND_ASYNC_URL":  &c.Backend.AsyncURL,
		"PARATRANSIT_BACKEND_NAMESPACE":  &c.Backend.Namespace,
		"PARATRANSIT_GEOCODER_ENDPOINT":  &c.Geocoder.Endpoint,
		"PARATRANSIT_GEOCODER_USERAGENT": &c.Geocoder.UserAgent,
		"PARATRANSIT_GEOCODER_EMAIL":     &c.Geocoder.Email,
		"PARATRANSIT_TIMEZONE":           &c.Timezone,
		"PARATRANSIT_LISTEN":             &c.Listen,
		"PARATRANSIT_TRANSFORMS":         &c.TransformsPath,
	}

	for name, target := range overrides {
		if env[name] != "" {
			*target = env[name]
		}
	}

	if env["PARATRANSIT_BACKEND_TIMEOUT"] != "" {
		timeout, err := strconv.Atoi(env["PARATRANSIT_BACKEND_TIMEOUT"])
		if err != nil {
			return fmt.Errorf("PARATRANSIT_BACKEND_TIMEOUT: %w", err)
		}
		c.Backend.TimeoutSeconds = timeout
	}

	return nil
}

func (c *Config) Validate() error {
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}

	if c.Backend.TimeoutSeconds <= 0 {
		return errors.New("backend timeout must be positive")
	}

	return nil
}

// Location is the single time reference for every date calculation
func (c *Config) Location() *time.Location {
	location, err := time.LoadLocation(c.Timezone)
	if err != nil {
		log.Error().Err(err).Str("timezone", c.Timezone).Msg("Falling back to UTC")
		return time.UTC
	}

	return location
}

func (c *Config) BackendTimeout() time.Duration {
	return time.Duration(c.Backend.TimeoutSeconds) * time.Second
}

// RequireBackend fails when no booking endpoint has been configured
func (c *Config) RequireBackend() error {
	if c.Backend.SyncURL == "" {
		return errors.New("PARATRANSIT_BACKEND_SYNC_URL is not set")
	}

	return nil
}
