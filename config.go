package storeradius

import (
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type CatalogConfig struct {
	// Source is a .json file, a .dbf table or an s3://bucket/key object.
	Source        string `mapstructure:"source"`
	NameField     string `mapstructure:"name_field"`
	PostcodeField string `mapstructure:"postcode_field"`
	Region        string `mapstructure:"region"`
}

type GeocoderConfig struct {
	// Provider is one of postcodesio, postgis or spatialite.
	Provider  string        `mapstructure:"provider"`
	URL       string        `mapstructure:"url"`
	Timeout   time.Duration `mapstructure:"timeout"` // 0 means no client timeout
	BatchSize int           `mapstructure:"batch_size"`
}

type DatabaseConfig struct {
	URL  string `mapstructure:"url"`
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Geocoder GeocoderConfig `mapstructure:"geocoder"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
}

const (
	ProviderPostcodesIO = "postcodesio"
	ProviderPostGIS     = "postgis"
	ProviderSpatialite  = "spatialite"
)

// SetDefaults registers the default for every known key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("catalog.source", "data/stores.json")
	v.SetDefault("catalog.name_field", "NAME")
	v.SetDefault("catalog.postcode_field", "POSTCODE")
	v.SetDefault("catalog.region", "")
	v.SetDefault("geocoder.provider", ProviderPostcodesIO)
	v.SetDefault("geocoder.url", DefaultPostcodesURL)
	v.SetDefault("geocoder.timeout", "0s")
	v.SetDefault("geocoder.batch_size", MaxBatchSize)
	v.SetDefault("database.url", "")
	v.SetDefault("database.path", "postcodes.sqlite")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// LoadConfig reads cfgFile, when given, over the defaults. Every key can be
// overridden from the environment as STORERADIUS_<SECTION>_<KEY>.
func LoadConfig(v *viper.Viper, cfgFile string) (*Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix("storeradius")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "reading config file %s", cfgFile)
		}
	}

	var cfg Config
	decoderConfigOption := viper.DecoderConfigOption(func(dc *mapstructure.DecoderConfig) {
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			dc.DecodeHook,
			mapstructure.StringToTimeDurationHookFunc(),
		)
	})
	if err := v.Unmarshal(&cfg, decoderConfigOption); err != nil {
		return nil, errors.Wrap(err, "decoding config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Geocoder.Provider {
	case ProviderPostcodesIO:
	case ProviderPostGIS:
		if c.Database.URL == "" {
			return errors.New("database.url is required for the postgis geocoder")
		}
	case ProviderSpatialite:
		if c.Database.Path == "" {
			return errors.New("database.path is required for the spatialite geocoder")
		}
	default:
		return errors.Errorf("unknown geocoder provider %q", c.Geocoder.Provider)
	}

	if c.Geocoder.BatchSize < 1 || c.Geocoder.BatchSize > MaxBatchSize {
		return errors.Errorf("geocoder.batch_size must be between 1 and %d", MaxBatchSize)
	}
	if c.Catalog.Source == "" {
		return errors.New("catalog.source is required")
	}
	return nil
}
