package commands

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/goliatone/go-repeater/internal/logging"
)

// Config is the resolved CLI configuration. Values come from flags, then
// REPEATER_* environment variables, then a .repeater.yaml file.
type Config struct {
	LogLevel  string
	LogFormat string
	LogFile   string

	Templates  string
	HTTPSource bool
	Timeout    time.Duration

	Addr          string
	PreviewURL    string
	PreviewAction string
	PreviewWidth  int
	ObjectID      string
	ObjectType    string
	ThemeName     string
	ThemeVariant  string
	SubmitAction  string
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigName(".repeater")
	v.SetEnvPrefix("REPEATER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("timeout", 15*time.Second)
	v.SetDefault("serve.addr", "127.0.0.1:8080")
	v.SetDefault("preview.action", "oembed_handler")
	v.SetDefault("preview.width", 640)
	v.SetDefault("object.type", "post")

	if override := os.Getenv("REPEATER_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")
	return v
}

func readConfig(v *viper.Viper) (Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, err
		}
	}
	return Config{
		LogLevel:      v.GetString("log.level"),
		LogFormat:     v.GetString("log.format"),
		LogFile:       v.GetString("log.file"),
		Templates:     v.GetString("templates"),
		HTTPSource:    v.GetBool("http"),
		Timeout:       v.GetDuration("timeout"),
		Addr:          v.GetString("serve.addr"),
		PreviewURL:    v.GetString("preview.url"),
		PreviewAction: v.GetString("preview.action"),
		PreviewWidth:  v.GetInt("preview.width"),
		ObjectID:      v.GetString("object.id"),
		ObjectType:    v.GetString("object.type"),
		ThemeName:     v.GetString("theme.name"),
		ThemeVariant:  v.GetString("theme.variant"),
		SubmitAction:  v.GetString("action"),
	}, nil
}

func (c Config) logger() (*zap.Logger, func(), error) {
	return logging.New(logging.Config{
		Level:  c.LogLevel,
		Format: c.LogFormat,
		File:   c.LogFile,
	})
}
