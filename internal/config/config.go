// Package config loads configs/config.yml with viper.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"smoking_chamber/internal/hardware"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. SMOKER_DB_PATH.
const EnvPrefix = "SMOKER"

type Config struct {
	Port       string           `mapstructure:"port"`
	Log        LogConfig        `mapstructure:"log"`
	DB         DBConfig         `mapstructure:"db"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Panel      PanelConfig      `mapstructure:"panel"`
	Pins       hardware.Pins    `mapstructure:"pins"`
	Network    NetworkConfig    `mapstructure:"network"`
	Controller ControllerConfig `mapstructure:"controller"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type DBConfig struct {
	Path string `mapstructure:"path"`
}

type AuthConfig struct {
	SigningKey string        `mapstructure:"signing_key"`
	TokenTTL   time.Duration `mapstructure:"token_ttl"`
}

type PanelConfig struct {
	PollInterval   time.Duration `mapstructure:"poll_interval"`
	RenderInterval time.Duration `mapstructure:"render_interval"`
	Debounce       time.Duration `mapstructure:"debounce"`
}

type NetworkConfig struct {
	Mode string `mapstructure:"mode"` // AP | STA
	SSID string `mapstructure:"ssid"`
	IP   string `mapstructure:"ip"`
}

type ControllerConfig struct {
	Tick         time.Duration `mapstructure:"tick"`
	MaxTempC     float64       `mapstructure:"max_temp_c"`
	MinHeaterOff time.Duration `mapstructure:"min_heater_off"`
	AmbientC     float64       `mapstructure:"ambient_c"`
}

func setDefaults(v *viper.Viper) {
	pins := hardware.DefaultPins()

	v.SetDefault("port", "8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("db.path", "smoker.db")
	v.SetDefault("auth.token_ttl", time.Hour)
	v.SetDefault("panel.poll_interval", 10*time.Millisecond)
	v.SetDefault("panel.render_interval", 200*time.Millisecond)
	v.SetDefault("panel.debounce", 50*time.Millisecond)
	v.SetDefault("pins.btn_up", int(pins.ButtonUp))
	v.SetDefault("pins.btn_down", int(pins.ButtonDown))
	v.SetDefault("pins.btn_ok", int(pins.ButtonOK))
	v.SetDefault("pins.btn_back", int(pins.ButtonBack))
	v.SetDefault("pins.heater", int(pins.Heater))
	v.SetDefault("pins.smoke", int(pins.Smoke))
	v.SetDefault("pins.fan", int(pins.Fan))
	v.SetDefault("network.mode", "AP")
	v.SetDefault("network.ssid", "SmartSmoker")
	v.SetDefault("network.ip", "192.168.4.1")
	v.SetDefault("controller.tick", time.Second)
	v.SetDefault("controller.max_temp_c", 100.0)
	v.SetDefault("controller.min_heater_off", 30*time.Second)
	v.SetDefault("controller.ambient_c", 20.0)
}

// Load reads config.yml from dir. A missing file is not an error: defaults
// and environment overrides still apply.
func Load(dir string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AddConfigPath(dir)
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the panel or control loop cannot run with.
func (c Config) Validate() error {
	if c.Auth.SigningKey == "" {
		return errors.New("auth.signing_key is required")
	}
	if c.Panel.PollInterval <= 0 || c.Panel.RenderInterval <= 0 || c.Panel.Debounce <= 0 {
		return errors.New("panel intervals must be positive")
	}
	if c.Controller.Tick <= 0 {
		return errors.New("controller.tick must be positive")
	}
	if c.Controller.MaxTempC <= c.Controller.AmbientC {
		return fmt.Errorf("controller.max_temp_c %.1f must exceed ambient %.1f", c.Controller.MaxTempC, c.Controller.AmbientC)
	}
	if c.Network.Mode != "AP" && c.Network.Mode != "STA" {
		return fmt.Errorf("network.mode %q must be AP or STA", c.Network.Mode)
	}
	return nil
}
