package config

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/util"
	"github.com/spf13/viper"
)

const ENV_PREFIX = "NAVX"

type Config struct {
	RerouteThresholdKm   float64 `mapstructure:"reroute_threshold_km" validate:"gt=0"`
	SpeechThresholdKm    float64 `mapstructure:"speech_threshold_km" validate:"gt=0"`
	WorkerPoolSize       int     `mapstructure:"worker_pool_size" validate:"gte=0"`
	Metric               string  `mapstructure:"metric" validate:"oneof=shortest fastest traffic"`
	Vehicle              string  `mapstructure:"vehicle" validate:"oneof=motorcar bicycle"`
	AllowUTurn           bool    `mapstructure:"allow_u_turn"`
	UTurnPenalty         float64 `mapstructure:"u_turn_penalty" validate:"gte=0"`
	MapFile              string  `mapstructure:"map_file"`
	APIPort              int     `mapstructure:"api_port" validate:"gt=0,lte=65535"`
	APIRateLimit         float64 `mapstructure:"api_rate_limit" validate:"gte=0"`
	LogLevel             string  `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	Development          bool    `mapstructure:"development"`
	Locale               string  `mapstructure:"locale" validate:"required"`
	TrafficRuleCacheSize int     `mapstructure:"traffic_rule_cache_size" validate:"gt=0"`
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("reroute_threshold_km", pkg.DEFAULT_REROUTE_THRESHOLD_KM)
	v.SetDefault("speech_threshold_km", pkg.DEFAULT_SPEECH_THRESHOLD_KM)
	v.SetDefault("worker_pool_size", 0)
	v.SetDefault("metric", "fastest")
	v.SetDefault("vehicle", "motorcar")
	v.SetDefault("allow_u_turn", true)
	v.SetDefault("u_turn_penalty", 0.0)
	v.SetDefault("map_file", "./data/map.osm.pbf")
	v.SetDefault("api_port", 6060)
	v.SetDefault("api_rate_limit", 0.0)
	v.SetDefault("log_level", "info")
	v.SetDefault("development", false)
	v.SetDefault("locale", "en")
	v.SetDefault("traffic_rule_cache_size", 64)
}

/*
Load. defaults, then the config file (if any) in ./data/ or paths, then NAVX_* environment variables.
a missing config file is not an error.
*/
func Load(paths ...string) (*Config, error) {
	v := viper.GetViper()
	SetDefaults(v)
	v.SetEnvPrefix(ENV_PREFIX)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := util.ReadConfig(paths...); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, util.WrapErrorf(err, util.ErrBadParamInput, "read config")
		}
	}
	return FromViper(v)
}

func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, util.WrapErrorf(err, util.ErrBadParamInput, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return util.WrapErrorf(err, util.ErrBadParamInput, "invalid config")
	}
	return nil
}
