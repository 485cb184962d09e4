// Command dataflow-demo wires the core runner to a small third-party
// stack: flags and .env for configuration, zap for lifecycle logging,
// an optional redis-backed snapshot component, and an atomic on-exit
// snapshot file. None of this lives in the core channel/runner
// packages; it exists to give the retrieved example pack's domain
// dependencies a concrete home.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/lpernett/godotenv"
	"github.com/natefinch/atomic"
	"github.com/redis/go-redis/v9"
	flag "github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/riverline/dataflow/runner"
)

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}

func run(args []string, out, errOut *os.File) int {
	_ = godotenv.Load()

	flags := flag.NewFlagSet("dataflow-demo", flag.ContinueOnError)
	ticks := flags.Int("ticks", 3, "number of dispatch ticks to run")
	logLevel := flags.String("log-level", "info", "zap log level: debug, info, warn, error")
	redisAddr := flags.String("redis-addr", envOr("REDIS_ADDR", "localhost:6379"), "redis address for the snapshot component")
	redisEnabled := flags.Bool("with-redis", false, "enable the redis snapshot component")
	seedFile := flags.String("seed-file", "", "optional YAML file seeding the counter's initial value")
	snapshotFile := flags.String("snapshot-file", "", "optional path to atomically write the counter's final value as JSON")

	if err := flags.Parse(args[1:]); err != nil {
		fmt.Fprintln(errOut, "error:", err)
		return 1
	}

	logger, err := buildLogger(*logLevel)
	if err != nil {
		fmt.Fprintln(errOut, "error:", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	seed := int64(0)
	if *seedFile != "" {
		seed, err = loadSeed(*seedFile)
		if err != nil {
			logger.Error("failed to load seed file", zap.Error(err))
			return 1
		}
	}

	r := runner.New(runner.WithLogger(logger))

	counter := &CounterComponent{name: "demo.counter", init: seed}
	if err := r.AddComponent(counter); err != nil {
		logger.Error("add component", zap.Error(err))
		return 1
	}

	if *redisEnabled {
		client := redis.NewClient(&redis.Options{Addr: *redisAddr})
		defer func() { _ = client.Close() }()

		snapshot := &RedisSnapshotComponent{
			client:    client,
			key:       "dataflow-demo:counter",
			inputName: counter.name,
		}
		if err := r.AddComponent(snapshot); err != nil {
			logger.Error("add component", zap.Error(err))
			return 1
		}
	}

	if err := r.Initialize(); err != nil {
		logger.Error("initialize", zap.Error(err))
		return 1
	}

	for i := 0; i < *ticks; i++ {
		if err := r.Dispatch(); err != nil {
			logger.Error("dispatch", zap.Error(err))
			return 1
		}
	}

	fmt.Fprintf(out, "%s = %d\n", counter.name, counter.last)

	if *snapshotFile != "" {
		if err := writeSnapshot(*snapshotFile, map[string]int64{counter.name: counter.last}); err != nil {
			logger.Error("snapshot write", zap.Error(err))
			return 1
		}
	}

	return 0
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func buildLogger(level string) (*zap.Logger, error) {
	var lvl zapcore.Level
	if err := lvl.Set(level); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	return cfg.Build()
}

type seedDoc struct {
	Counter int64 `yaml:"counter"`
}

func loadSeed(path string) (int64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	var doc seedDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return 0, err
	}

	return doc.Counter, nil
}

func writeSnapshot(path string, values map[string]int64) error {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return err
	}

	return atomic.WriteFile(path, bytes.NewReader(data))
}
