// Package main is the administrative tool that owns blacklist contents.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"fraudguard/internal/config"
	"fraudguard/internal/repositories/cache"
)

var Version = "dev"

func main() {
	config.LoadEnv()
	cfg := config.Load()

	open := func(ctx context.Context) (cache.Store, error) {
		return cache.Open(ctx, cfg.StateStore, &cache.RedisConfig{
			Host:        cfg.RedisHost,
			Port:        cfg.RedisPort,
			Password:    cfg.RedisPassword,
			DB:          cfg.RedisDB,
			DialTimeout: 5 * time.Second,
		})
	}

	if err := newRootCmd(open, os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
