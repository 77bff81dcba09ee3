package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/paulmach/orb"
	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	ServerAddress  string        `mapstructure:"SERVER_ADDRESS"`
	Environment    string        `mapstructure:"ENVIRONMENT"`
	LogLevel       string        `mapstructure:"LOG_LEVEL"`
	RequestTimeout time.Duration `mapstructure:"REQUEST_TIMEOUT"`

	DBSource      string `mapstructure:"DB_SOURCE"`
	DatasetSource string `mapstructure:"DATASET_SOURCE"`
	DatasetPath   string `mapstructure:"DATASET_PATH"`
	// CityBBox is "minLon,minLat,maxLon,maxLat" of the served city. Dataset
	// points that only fall inside it when read as [lat, lon] are swapped.
	CityBBox string `mapstructure:"CITY_BBOX"`

	MaxSnapDistanceMeters float64 `mapstructure:"MAX_SNAP_DISTANCE_METERS"`
	FuzzyThreshold        int     `mapstructure:"FUZZY_THRESHOLD"`

	NominatimBaseURL       string        `mapstructure:"NOMINATIM_BASE_URL"`
	NominatimTimeout       time.Duration `mapstructure:"NOMINATIM_TIMEOUT"`
	NominatimRatePerSecond float64       `mapstructure:"NOMINATIM_RATE_PER_SECOND"`
	OverpassURL            string        `mapstructure:"OVERPASS_URL"`
	OverpassTimeout        time.Duration `mapstructure:"OVERPASS_TIMEOUT"`
	UserAgent              string        `mapstructure:"USER_AGENT"`
	City                   string        `mapstructure:"CITY"`
	Country                string        `mapstructure:"COUNTRY"`
	CountryCodes           string        `mapstructure:"COUNTRY_CODES"`

	RedisAddr     string        `mapstructure:"REDIS_ADDR"`
	RedisPassword string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int           `mapstructure:"REDIS_DB"`
	CacheTTL      time.Duration `mapstructure:"CACHE_TTL"`
}

// Street dataset backends.
const (
	DatasetFile     = "file"
	DatasetPostgres = "postgres"
)

var defaults = map[string]any{
	"SERVER_ADDRESS":  "0.0.0.0:8080",
	"ENVIRONMENT":     "production",
	"LOG_LEVEL":       "info",
	"REQUEST_TIMEOUT": "30s",

	"DB_SOURCE":      "",
	"DATASET_SOURCE": "file",
	"DATASET_PATH":   "data/streets.json",
	"CITY_BBOX":      "36.10,49.88,36.45,50.10",

	"MAX_SNAP_DISTANCE_METERS": 120.0,
	"FUZZY_THRESHOLD":          70,

	"NOMINATIM_BASE_URL":        "https://nominatim.openstreetmap.org",
	"NOMINATIM_TIMEOUT":         "10s",
	"NOMINATIM_RATE_PER_SECOND": 1.0,
	"OVERPASS_URL":              "https://overpass-api.de/api/interpreter",
	"OVERPASS_TIMEOUT":          "30s",
	"USER_AGENT":                "street-segment-api/1.0",
	"CITY":                      "Харків",
	"COUNTRY":                   "Україна",
	"COUNTRY_CODES":             "ua",

	"REDIS_ADDR":     "",
	"REDIS_PASSWORD": "",
	"REDIS_DB":       0,
	"CACHE_TTL":      "1h",
}

// LoadConfig reads configuration from app.env in path, if present, and
// from environment variables, which take precedence.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")

	for k, d := range defaults {
		v.SetDefault(k, d)
	}
	v.AutomaticEnv()

	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config, fmt.Errorf("config: failed to read config: %w", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("config: failed to decode config: %w", err)
	}
	if err = config.Validate(); err != nil {
		return config, err
	}
	return config, nil
}

// Validate checks value ranges and cross-field requirements.
func (c Config) Validate() error {
	var errs []error
	if c.ServerAddress == "" {
		errs = append(errs, errors.New("SERVER_ADDRESS is required"))
	}
	if c.MaxSnapDistanceMeters <= 0 {
		errs = append(errs, fmt.Errorf("MAX_SNAP_DISTANCE_METERS must be positive, got %g", c.MaxSnapDistanceMeters))
	}
	if c.FuzzyThreshold < 0 || c.FuzzyThreshold > 100 {
		errs = append(errs, fmt.Errorf("FUZZY_THRESHOLD must be within 0..100, got %d", c.FuzzyThreshold))
	}
	if c.NominatimRatePerSecond < 0 {
		errs = append(errs, fmt.Errorf("NOMINATIM_RATE_PER_SECOND must not be negative, got %g", c.NominatimRatePerSecond))
	}
	if c.RedisDB < 0 {
		errs = append(errs, fmt.Errorf("REDIS_DB must not be negative, got %d", c.RedisDB))
	}
	switch c.DatasetSource {
	case DatasetFile:
		if c.DatasetPath == "" {
			errs = append(errs, errors.New("DATASET_PATH is required for the file dataset"))
		}
	case DatasetPostgres:
		if c.DBSource == "" {
			errs = append(errs, errors.New("DB_SOURCE is required for the postgres dataset"))
		}
	default:
		errs = append(errs, fmt.Errorf("DATASET_SOURCE must be file or postgres, got %q", c.DatasetSource))
	}
	if _, err := c.CityBounds(); err != nil {
		errs = append(errs, err)
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: invalid configuration: %w", err)
	}
	return nil
}

// CityBounds parses CityBBox. An empty value yields nil.
func (c Config) CityBounds() (*orb.Bound, error) {
	if strings.TrimSpace(c.CityBBox) == "" {
		return nil, nil
	}

	var minLon, minLat, maxLon, maxLat float64
	if _, err := fmt.Sscanf(strings.ReplaceAll(c.CityBBox, " ", ""), "%g,%g,%g,%g", &minLon, &minLat, &maxLon, &maxLat); err != nil {
		return nil, fmt.Errorf("CITY_BBOX must be minLon,minLat,maxLon,maxLat: %w", err)
	}
	if minLon >= maxLon || minLat >= maxLat {
		return nil, fmt.Errorf("CITY_BBOX has an empty extent: %q", c.CityBBox)
	}

	b := orb.Bound{Min: orb.Point{minLon, minLat}, Max: orb.Point{maxLon, maxLat}}
	return &b, nil
}

// Development reports whether human-readable console logging is wanted.
func (c Config) Development() bool {
	return c.Environment == "development"
}
