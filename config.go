package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"unicode/utf8"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/ad/telegram-uz-translit/store"
	"github.com/ad/telegram-uz-translit/translit"
)

const ConfigFileName = "/data/options.json"

// Config ...
type Config struct {
	Token       string `mapstructure:"TOKEN"`
	ChannelID   int64  `mapstructure:"CHANNEL_ID"`
	Storage     string `mapstructure:"STORAGE"`
	StoragePath string `mapstructure:"STORAGE_PATH"`
	WebhookURL  string `mapstructure:"WEBHOOK_URL"`
	Listen      string `mapstructure:"LISTEN"`
	Apostrophe  string `mapstructure:"APOSTROPHE"`
	Debug       bool   `mapstructure:"DEBUG"`
}

// loadConfig reads the add-on options file when it exists, then lets
// environment variables and command line flags override it.
func loadConfig(args []string, optionsFile string) (*Config, error) {
	fs := pflag.NewFlagSet("telegram-uz-translit", pflag.ContinueOnError)
	fs.String("TOKEN", "", "telegram bot token")
	fs.Int64("CHANNEL_ID", 0, "channel used by the channel storage")
	fs.String("STORAGE", string(store.KindFile), "mode storage: memory, file, sqlite or channel")
	fs.String("STORAGE_PATH", "", "file or database path for file and sqlite storage")
	fs.String("WEBHOOK_URL", "", "public webhook url, long polling when empty")
	fs.String("LISTEN", ":8080", "webhook listen address")
	fs.String("APOSTROPHE", "'", "apostrophe written in latin output")
	fs.Bool("DEBUG", false, "log bot api requests")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	v := viper.New()

	if optionsFile != "" {
		if _, err := os.Stat(optionsFile); err == nil {
			v.SetConfigFile(optionsFile)
			v.SetConfigType("json")

			if err := v.ReadInConfig(); err != nil {
				log.Printf("error on read config from file %s\n", err.Error())
			}
		}
	}

	v.AutomaticEnv()

	if err := v.BindPFlags(fs); err != nil {
		return nil, err
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) validate() error {
	if c.Token == "" {
		return errors.New("TOKEN env var not set")
	}

	switch store.Kind(c.Storage) {
	case store.KindMemory:
	case store.KindFile:
		if c.StoragePath == "" {
			c.StoragePath = "user_modes.json"
		}
	case store.KindSQLite:
		if c.StoragePath == "" {
			c.StoragePath = "user_modes.db"
		}
	case store.KindChannel:
		if c.ChannelID == 0 {
			return errors.New("CHANNEL_ID is required for channel storage")
		}
	default:
		return fmt.Errorf("%w: %q", store.ErrUnknownKind, c.Storage)
	}

	if c.Apostrophe != "" && utf8.RuneCountInString(c.Apostrophe) != 1 {
		return fmt.Errorf("APOSTROPHE must be a single character, got %q", c.Apostrophe)
	}

	return nil
}

func (c *Config) storeConfig(api store.ChannelAPI) store.Config {
	return store.Config{
		Kind:      store.Kind(c.Storage),
		Path:      c.StoragePath,
		ChannelID: c.ChannelID,
		API:       api,
	}
}

func (c *Config) translitOptions() []translit.Option {
	if c.Apostrophe == "" {
		return nil
	}

	r, _ := utf8.DecodeRuneInString(c.Apostrophe)

	return []translit.Option{translit.WithApostrophe(r)}
}
