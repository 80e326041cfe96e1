package main

import (
	"fmt"
	"time"

	"github.com/Netflix/go-env"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	StoreDriver        string        `env:"STORE_DRIVER,default=badger" validate:"oneof=badger bolt pebble memory"`
	StorePath          string        `env:"STORE_PATH,default=./data/chat" validate:"required_unless=StoreDriver memory"`
	LogLevel           string        `env:"LOG_LEVEL,default=INFO"`
	FlushInterval      time.Duration `env:"FLUSH_INTERVAL,default=500ms" validate:"gte=0"`
	RestartInterval    time.Duration `env:"RESTART_INTERVAL,default=1s"`
	HeartbeatInterval  time.Duration `env:"HEARTBEAT_INTERVAL,default=1m" validate:"gte=0"`
	LocalUserID        string        `env:"LOCAL_USER_ID,default=me" validate:"required"`
	LocalUserName      string        `env:"LOCAL_USER_NAME,default=Me"`
	PeerRepliesEnabled bool          `env:"PEER_REPLIES_ENABLED,default=true"`
	PeerMinDelay       time.Duration `env:"PEER_MIN_DELAY,default=3s" validate:"gte=0"`
	PeerMaxDelay       time.Duration `env:"PEER_MAX_DELAY,default=8s" validate:"gtefield=PeerMinDelay"`
	CensoredWords      string        `env:"CENSORED_WORDS"`
	CharReplacement    string        `env:"CHARACTER_REPLACEMENT,default=*"`
}

// loadConfig reads an optional .env file then the environment.
func loadConfig() (Config, error) {
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return Config{}, fmt.Errorf("config error: %w", err)
	}
	if err := validator.New().Struct(config); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return config, nil
}
