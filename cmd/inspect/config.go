package main

import "github.com/kelseyhightower/envconfig"

type Config struct {
	StoreDriver string `envconfig:"INSPECT_STORE_DRIVER" default:"badger"`
	StorePath   string `envconfig:"INSPECT_STORE_PATH" default:"./data/chat"`
	// INSPECT_COLOURS highlights unread counters and unviewed oinks
	Colours bool `envconfig:"INSPECT_COLOURS" default:"true"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
