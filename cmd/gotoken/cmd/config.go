package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/sirupsen/logrus"
)

// EnvConfigPath names the config file when --config is not given.
const EnvConfigPath = "GOTOKEN_CONFIG"

type (
	// Config is the CLI configuration. Values come from an optional YAML file,
	// then GOTOKEN_* environment variables, then command flags.
	Config struct {
		KeyFile   string      `yaml:"key_file" env:"GOTOKEN_KEY_FILE"`
		ExpFormat string      `yaml:"exp_format" env:"GOTOKEN_EXP_FORMAT" env-default:"rfc3339"`
		LogLevel  string      `yaml:"log_level" env:"GOTOKEN_LOG_LEVEL" env-default:"warning"`
		Audit     AuditConfig `yaml:"audit"`
	}

	AuditConfig struct {
		// Log writes audit events through the CLI logger.
		Log       bool   `yaml:"log" env:"GOTOKEN_AUDIT_LOG" env-default:"false"`
		RedisAddr string `yaml:"redis_addr" env:"GOTOKEN_AUDIT_REDIS_ADDR"`
		Stream    string `yaml:"stream" env:"GOTOKEN_AUDIT_STREAM" env-default:"gotoken:audit"`
		MaxLen    int64  `yaml:"max_len" env:"GOTOKEN_AUDIT_MAXLEN" env-default:"10000"`
	}
)

// LoadConfig reads path when set, falling back to GOTOKEN_CONFIG, and
// applies environment overrides in both cases.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}

	var cfg Config
	if path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		return cfg, nil
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read env: %w", err)
	}
	return cfg, nil
}

func newLogger(level string, out io.Writer) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetLevel(lvl)
	return logger, nil
}
