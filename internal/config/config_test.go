package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.ServerAddress)
	assert.Equal(t, "file", cfg.DatasetSource)
	assert.Equal(t, 120.0, cfg.MaxSnapDistanceMeters)
	assert.Equal(t, 70, cfg.FuzzyThreshold)
	assert.Equal(t, 10*time.Second, cfg.NominatimTimeout)
	assert.Equal(t, time.Hour, cfg.CacheTTL)
	assert.False(t, cfg.Development())
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	content := "SERVER_ADDRESS=127.0.0.1:9000\n" +
		"ENVIRONMENT=development\n" +
		"FUZZY_THRESHOLD=80\n" +
		"CACHE_TTL=15m\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.env"), []byte(content), 0o600))

	t.Setenv("FUZZY_THRESHOLD", "85")
	t.Setenv("MAX_SNAP_DISTANCE_METERS", "60.5")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.ServerAddress)
	assert.True(t, cfg.Development())
	assert.Equal(t, 85, cfg.FuzzyThreshold)
	assert.Equal(t, 60.5, cfg.MaxSnapDistanceMeters)
	assert.Equal(t, 15*time.Minute, cfg.CacheTTL)
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Setenv("DATASET_SOURCE", "postgres")
	t.Setenv("DB_SOURCE", "")

	_, err := LoadConfig(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_SOURCE is required")
}

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		return Config{
			ServerAddress:         ":8080",
			DatasetSource:         "file",
			DatasetPath:           "streets.json",
			MaxSnapDistanceMeters: 120,
			FuzzyThreshold:        70,
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "snap distance", mutate: func(c *Config) { c.MaxSnapDistanceMeters = 0 }, wantErr: "MAX_SNAP_DISTANCE_METERS"},
		{name: "threshold", mutate: func(c *Config) { c.FuzzyThreshold = 101 }, wantErr: "FUZZY_THRESHOLD"},
		{name: "rate", mutate: func(c *Config) { c.NominatimRatePerSecond = -1 }, wantErr: "NOMINATIM_RATE_PER_SECOND"},
		{name: "dataset source", mutate: func(c *Config) { c.DatasetSource = "s3" }, wantErr: "DATASET_SOURCE"},
		{name: "dataset path", mutate: func(c *Config) { c.DatasetPath = "" }, wantErr: "DATASET_PATH"},
		{name: "bbox", mutate: func(c *Config) { c.CityBBox = "36,50" }, wantErr: "CITY_BBOX"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_CityBounds(t *testing.T) {
	b, err := Config{CityBBox: "36.1, 49.9, 36.4, 50.1"}.CityBounds()
	require.NoError(t, err)
	assert.Equal(t, &orb.Bound{Min: orb.Point{36.1, 49.9}, Max: orb.Point{36.4, 50.1}}, b)

	b, err = Config{}.CityBounds()
	require.NoError(t, err)
	assert.Nil(t, b)

	_, err = Config{CityBBox: "36.4,49.9,36.1,50.1"}.CityBounds()
	assert.Error(t, err)
}
