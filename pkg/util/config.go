package util

import (
	"fmt"

	"github.com/spf13/viper"
)

func ReadConfig(paths ...string) error {
	viper.SetConfigName("config")
	viper.AddConfigPath("./data/")
	for _, p := range paths {
		viper.AddConfigPath(p)
	}

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("fatal error config file: %w", err)
	}
	return nil
}
