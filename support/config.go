package support

import (
	"context"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const EnvPrefix = "WEE_INDICATOR"

type Mode string

const (
	Memory Mode = "memory"
	Local  Mode = "local"
	Live   Mode = "live"
)

type Config struct {
	Mode          Mode   `mapstructure:"mode"`
	ListenAddress string `mapstructure:"listen_address"`
	LogLevel      string `mapstructure:"log_level"`

	Exporter         string `mapstructure:"exporter"`
	JaegerEndpoint   string `mapstructure:"jaeger_endpoint"`
	HoneycombTeam    string `mapstructure:"honeycomb_team"`
	HoneycombDataset string `mapstructure:"honeycomb_dataset"`

	Source        string `mapstructure:"source"`
	TableName     string `mapstructure:"table_name"`
	NatsURL       string `mapstructure:"nats_url"`
	StreamName    string `mapstructure:"stream_name"`
	SubjectPrefix string `mapstructure:"subject_prefix"`
}

func defaults(v *viper.Viper) {
	hostname, err := os.Hostname()
	if err != nil || hostname == "" {
		hostname = "wee-indicator"
	}

	v.SetDefault("mode", string(Memory))
	v.SetDefault("listen_address", ":9080")
	v.SetDefault("log_level", "info")
	v.SetDefault("exporter", "none")
	v.SetDefault("jaeger_endpoint", "http://localhost:14268/api/traces")
	v.SetDefault("honeycomb_team", "")
	v.SetDefault("honeycomb_dataset", "")
	v.SetDefault("source", hostname)
	v.SetDefault("table_name", "wee-indicator")
	v.SetDefault("nats_url", "nats://localhost:4222")
	v.SetDefault("stream_name", "indicator")
	v.SetDefault("subject_prefix", "indicator")
}

// LoadConfig reads an optional indicator.{yaml,json,toml} from the working
// directory, overridden by WEE_INDICATOR_* environment variables.
func LoadConfig() (*Config, error) {
	v := viper.New()
	defaults(v)

	v.SetConfigName("indicator")
	v.AddConfigPath(".")
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var missing viper.ConfigFileNotFoundError
		if !errors.As(err, &missing) {
			return nil, errors.Wrap(err, "failed to read configuration file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to load configuration")
	}

	switch cfg.Mode {
	case Memory, Local, Live:
	default:
		return nil, errors.Errorf("unknown mode %q", cfg.Mode)
	}

	return &cfg, nil
}

func AWSConfig(ctx context.Context) (aws.Config, error) {
	return config.LoadDefaultConfig(ctx)
}
