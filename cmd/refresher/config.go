package refresher

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Interval   time.Duration `envconfig:"SNAPSHOT_INTERVAL" default:"1h"`
	WarmMetric bool          `envconfig:"WARM_METRICS" default:"true"`
}

func GetConfig() *Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return &config
}
