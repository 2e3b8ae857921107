// Package config loads chatview settings with viper.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

// EnvPrefix prefixes environment overrides: render.gfm -> CHATVIEW_RENDER_GFM.
const EnvPrefix = "chatview"

type Config struct {
	HTTPAddr string
	Log      LogConfig
	Render   RenderConfig
	Chat     ChatConfig
	Web      WebConfig
	Watch    WatchConfig
}

type LogConfig struct {
	Level  string
	Format string
}

type RenderConfig struct {
	MarkerClass string
	HardWraps   bool
	GFM         bool
	HeadingIDs  bool
	Emoji       bool
}

type ChatConfig struct {
	MaxMessageBytes int
}

type WebConfig struct {
	KeepAlive  time.Duration
	SecretFile string
	TokenTTL   time.Duration
}

type WatchConfig struct {
	Debounce time.Duration
}

func applyDefaults(v *viper.Viper) {
	for _, o := range Options() {
		v.SetDefault(o.Key, o.Default)
	}
}

// Load resolves configuration with precedence defaults < file < env.
//
// With an explicit path the file must exist and parse. Without one, the
// standard locations are searched and a missing file is not an error.
func Load(v *viper.Viper, path string) (Config, error) {
	applyDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		if dir := configDir(); dir != "" {
			v.AddConfigPath(dir)
		}
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("config: %w", err)
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := FromViper(v)
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// FromViper reads the resolved values out of v.
func FromViper(v *viper.Viper) Config {
	return Config{
		HTTPAddr: strings.TrimSpace(v.GetString("http_addr")),
		Log: LogConfig{
			Level:  strings.ToLower(strings.TrimSpace(v.GetString("log.level"))),
			Format: strings.ToLower(strings.TrimSpace(v.GetString("log.format"))),
		},
		Render: RenderConfig{
			MarkerClass: strings.TrimSpace(v.GetString("render.marker_class")),
			HardWraps:   v.GetBool("render.hard_wraps"),
			GFM:         v.GetBool("render.gfm"),
			HeadingIDs:  v.GetBool("render.heading_ids"),
			Emoji:       v.GetBool("render.emoji"),
		},
		Chat:  ChatConfig{MaxMessageBytes: v.GetInt("chat.max_message_bytes")},
		Web: WebConfig{
			KeepAlive:  v.GetDuration("web.keepalive"),
			SecretFile: strings.TrimSpace(v.GetString("web.secret_file")),
			TokenTTL:   v.GetDuration("web.token_ttl"),
		},
		Watch: WatchConfig{Debounce: v.GetDuration("watch.debounce")},
	}
}

// Validate reports every invalid setting at once.
func Validate(cfg Config) error {
	var errs []error
	if cfg.HTTPAddr == "" {
		errs = append(errs, errors.New("http_addr is required"))
	} else if _, _, err := net.SplitHostPort(cfg.HTTPAddr); err != nil {
		errs = append(errs, fmt.Errorf("http_addr %q is not host:port", cfg.HTTPAddr))
	}
	if _, err := zapcore.ParseLevel(cfg.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level %q is not a log level", cfg.Log.Level))
	}
	switch cfg.Log.Format {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format must be console or json, got %q", cfg.Log.Format))
	}
	if cfg.Render.MarkerClass == "" || strings.ContainsAny(cfg.Render.MarkerClass, " \t\n") {
		errs = append(errs, fmt.Errorf("render.marker_class must be a single class name, got %q", cfg.Render.MarkerClass))
	}
	if cfg.Chat.MaxMessageBytes <= 0 {
		errs = append(errs, errors.New("chat.max_message_bytes must be greater than 0"))
	}
	if cfg.Web.KeepAlive <= 0 {
		errs = append(errs, errors.New("web.keepalive must be greater than 0"))
	}
	if cfg.Web.TokenTTL <= 0 {
		errs = append(errs, errors.New("web.token_ttl must be greater than 0"))
	}
	if cfg.Watch.Debounce < 0 {
		errs = append(errs, errors.New("watch.debounce must not be negative"))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("config: %w", errors.Join(errs...))
}

func configDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "chatview")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "chatview")
}

// DefaultConfigPath is where `chatview config init` writes.
func DefaultConfigPath() string {
	dir := configDir()
	if dir == "" {
		return "config.toml"
	}
	return filepath.Join(dir, "config.toml")
}
