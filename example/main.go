// File: example/main.go
package main

import (
	"fmt"
	"log"

	"go.uber.org/zap"

	"github.com/confweave/config"
	"github.com/confweave/config/preset"
)

// CacheSettings shows an object property target: the [cache] table is
// decoded into this struct, with environment overrides applied first.
type CacheSettings struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
	DB   int    `toml:"db"`
}

var (
	// WEB_DEBUG=true overrides the file; absent both, false.
	debug = config.MustProperty("web.debug", config.Bool(),
		config.Default(false), config.Cached())

	// Union: the listen address may be a port number or a host:port
	// string.
	listen = config.MustProperty("web.listen",
		config.Union(config.Int(), config.String()),
		config.Default("127.0.0.1:8080"))

	// List with per-element overrides: TRUSTED_PROXIES replaces the
	// whole list, TRUSTED_PROXIES_ASTERISK_1 only the second entry.
	proxies = config.MustProperty("web.trusted_proxies",
		config.List(config.String()),
		config.WithEnvName("TRUSTED_PROXIES"), config.Default([]any{}))

	// Lazily constructed nested object, environment-aware at every
	// depth thanks to Recurse: CACHE_PORT=6380 reaches the struct.
	cache = config.MustObjectProperty("cache",
		config.StructFactory[CacheSettings](),
		config.Recurse(), config.Cached())
)

func main() {
	path, found := config.DiscoverPath(config.DefaultDiscoveryOptions("example"))
	if !found {
		path = "example.toml"
	}

	cfg, err := config.FromPath(path)
	if err != nil {
		log.Fatalf("load: %v", err)
	}

	web := preset.NewWeb(cfg)
	logger, err := web.Logger()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	if on, err := debug.Value(cfg); err == nil {
		logger.Info("debug mode", zap.Any("enabled", on))
	}
	if addr, err := listen.Value(cfg); err == nil {
		logger.Info("listen address", zap.Any("addr", addr))
	}
	if list, err := proxies.Value(cfg); err == nil {
		logger.Info("trusted proxies", zap.Any("proxies", list))
	}
	if obj, err := cache.Value(cfg); err == nil {
		c := obj.(*CacheSettings)
		logger.Info("cache", zap.Any("host", c.Host), zap.Any("port", c.Port))
	}

	worker := preset.NewWorker(cfg)
	schedule, err := worker.Schedule()
	if err != nil {
		log.Fatalf("schedule: %v", err)
	}
	for name, entry := range schedule {
		fmt.Printf("task %s runs %q (%s)\n", name, entry.Task, entry.Expr)
	}
}
