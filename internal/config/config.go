package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port     string `mapstructure:"PORT"`
	AppEnv   string `mapstructure:"APP_ENV"`
	DBUrl    string `mapstructure:"DB_URL"`
	RedisUrl string `mapstructure:"REDIS_URL"`

	OSRMServiceURL        string        `mapstructure:"OSRM_SERVICE_URL"`
	OSRMProfile           string        `mapstructure:"OSRM_PROFILE"`
	OSRMTimeout           time.Duration `mapstructure:"OSRM_TIMEOUT"`
	OSRMPolylinePrecision int           `mapstructure:"OSRM_POLYLINE_PRECISION"`
	OSRMUseHints          bool          `mapstructure:"OSRM_USE_HINTS"`

	// ScoringServiceURL defaults to scheme and host of OSRMServiceURL when empty.
	ScoringServiceURL string `mapstructure:"SCORING_SERVICE_URL"`

	KafkaBrokers       string `mapstructure:"KAFKA_BROKERS"`
	KafkaFeedbackTopic string `mapstructure:"KAFKA_FEEDBACK_TOPIC"`

	TripTTL           time.Duration `mapstructure:"TRIP_TTL"`
	SnapWarnDistanceM float64       `mapstructure:"SNAP_WARN_DISTANCE_M"`
}

// Brokers splits KafkaBrokers on commas. An empty result disables Kafka.
func (c Config) Brokers() []string {
	var brokers []string
	for _, b := range strings.Split(c.KafkaBrokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

var defaults = map[string]any{
	"PORT":                    ":8080",
	"APP_ENV":                 "development",
	"DB_URL":                  "",
	"REDIS_URL":               "",
	"OSRM_SERVICE_URL":        "https://router.project-osrm.org/route/v1",
	"OSRM_PROFILE":            "driving",
	"OSRM_TIMEOUT":            "30s",
	"OSRM_POLYLINE_PRECISION": 5,
	"OSRM_USE_HINTS":          false,
	"SCORING_SERVICE_URL":     "",
	"KAFKA_BROKERS":           "",
	"KAFKA_FEEDBACK_TOPIC":    "evroute.trip-feedback",
	"TRIP_TTL":                "24h",
	"SNAP_WARN_DISTANCE_M":    500.0,
}

// LoadConfig reads .env.{APP_ENV} from dir (if present) and lets environment variables
// override it.
func LoadConfig(dir string) (c Config, err error) {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName(fmt.Sprintf(".env.%s", env))
	v.SetConfigType("env")
	v.AddConfigPath(dir)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return c, fmt.Errorf("read config: %w", err)
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.AppEnv == "" {
		c.AppEnv = env
	}
	return c, nil
}
