package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/heartlens/internal/utils"
)

// Global configuration structure.
type Global struct {
	DataPath            string   `mapstructure:"data_path" yaml:"data_path"`
	Outcome             string   `mapstructure:"outcome" yaml:"outcome"`
	Scaler              string   `mapstructure:"scaler" yaml:"scaler"`
	ScaleColumns        []string `mapstructure:"scale_columns" yaml:"scale_columns"`
	DropZeroCholesterol bool     `mapstructure:"drop_zero_cholesterol" yaml:"drop_zero_cholesterol"`
	RestingBPCeiling    float64  `mapstructure:"resting_bp_ceiling" yaml:"resting_bp_ceiling"`
	SampleRows          int      `mapstructure:"sample_rows" yaml:"sample_rows"`

	Database Database `mapstructure:"database" yaml:"database"`
}

// Database holds the connection settings for the Persister.
type Database struct {
	Driver            string `mapstructure:"driver" yaml:"driver"`
	Username          string `mapstructure:"username" yaml:"username"`
	Password          string `mapstructure:"password" yaml:"password"`
	Host              string `mapstructure:"host" yaml:"host"`
	Port              string `mapstructure:"port" yaml:"port"`
	Name              string `mapstructure:"name" yaml:"name"`
	SSLMode           string `mapstructure:"sslmode" yaml:"sslmode"`
	Table             string `mapstructure:"table" yaml:"table"`
	ConnectTimeoutSec int    `mapstructure:"connect_timeout_sec" yaml:"connect_timeout_sec"`
}

// dbEnv maps database keys to the plain environment names used by the dataset's tooling.
var dbEnv = map[string]string{
	"database.driver":   "DB_DRIVER",
	"database.username": "DB_USERNAME",
	"database.password": "DB_PASSWORD",
	"database.host":     "DB_HOST",
	"database.port":     "DB_PORT",
	"database.name":     "DB_NAME",
	"database.sslmode":  "DB_SSLMODE",
}

// DefaultPath returns ~/.heartlens/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".heartlens", "config.yaml"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.heartlens/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := utils.SafeWriteFile(path, b); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Defaults returns the configuration with no file or environment applied.
func Defaults() *Global {
	v := viper.New()
	setDefaults(v)
	var c Global
	// Unmarshalling plain defaults cannot fail.
	_ = v.Unmarshal(&c)
	return &c
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. A .env file in the working
// directory is read first; variables already set in the environment win.
func Load(cfgFile string) (*Global, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("HEARTLENS")
	v.AutomaticEnv()
	for key, env := range dbEnv {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}
	setDefaults(v)
	if err := readFile(v, cfgFile, false); err != nil {
		return nil, err
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

// LoadFile reads defaults and the config file only, ignoring the environment
// and .env. It is the layer `config set` edits, so secrets supplied through
// the environment never end up on disk. A missing file yields the defaults.
func LoadFile(cfgFile string) (*Global, error) {
	v := viper.New()
	setDefaults(v)
	if err := readFile(v, cfgFile, true); err != nil {
		return nil, err
	}
	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data_path", "heart.csv")
	v.SetDefault("outcome", "HeartDisease")
	v.SetDefault("scaler", "standard")
	v.SetDefault("scale_columns", []string{"Age", "Cholesterol"})
	v.SetDefault("drop_zero_cholesterol", false)
	v.SetDefault("resting_bp_ceiling", 200.0)
	v.SetDefault("sample_rows", 5)
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.username", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.name", "")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.table", "heart_disease")
	v.SetDefault("database.connect_timeout_sec", 0)
}

// readFile reads cfgFile, or ~/.heartlens/config.yaml when it is empty.
// The default file may be absent; an explicit one must exist unless allowMissing is set.
func readFile(v *viper.Viper, cfgFile string, allowMissing bool) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		path, err := DefaultPath()
		if err != nil {
			return err
		}
		v.AddConfigPath(filepath.Dir(path))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case cfgFile == "" && errors.As(err, &notFound):
			return nil
		case allowMissing && errors.Is(err, fs.ErrNotExist):
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}
