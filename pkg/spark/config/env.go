package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment variables read by ApplyEnv
const (
	EnvAddr         = "SPARK_ADDR"
	EnvMaxWorkers   = "SPARK_MAX_WORKERS"
	EnvReadTimeout  = "SPARK_READ_TIMEOUT"
	EnvWriteTimeout = "SPARK_WRITE_TIMEOUT"
	EnvLogLevel     = "SPARK_LOG_LEVEL"
	EnvLogFormat    = "SPARK_LOG_FORMAT"
	EnvStaticRoot   = "SPARK_STATIC_ROOT"
	EnvMetricsAddr  = "SPARK_METRICS_ADDR"
	EnvProxyHosts   = "SPARK_PROXY_ALLOWED_HOSTS"
	EnvAcceptRate   = "SPARK_ACCEPT_RATE"
	EnvAcceptBurst  = "SPARK_ACCEPT_BURST"
)

// ApplyEnv overrides cfg from the process environment and reports
// whether any variable was used.
func ApplyEnv(cfg *Config) (bool, error) {
	return applyEnv(cfg, os.Getenv)
}

func applyEnv(cfg *Config, getenv func(string) string) (bool, error) {
	used := false
	str := func(key string, dst *string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
			used = true
		}
	}
	integer := func(key string, dst *int) error {
		v := strings.TrimSpace(getenv(key))
		if v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = n
		used = true
		return nil
	}
	duration := func(key string, dst *time.Duration) error {
		v := strings.TrimSpace(getenv(key))
		if v == "" {
			return nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = d
		used = true
		return nil
	}

	str(EnvAddr, &cfg.Server.Addr)
	str(EnvLogLevel, &cfg.Logging.Level)
	str(EnvLogFormat, &cfg.Logging.Format)
	str(EnvStaticRoot, &cfg.Static.Root)
	str(EnvMetricsAddr, &cfg.Metrics.Addr)

	if err := integer(EnvMaxWorkers, &cfg.Server.MaxWorkers); err != nil {
		return used, err
	}
	if err := integer(EnvAcceptBurst, &cfg.Server.AcceptBurst); err != nil {
		return used, err
	}
	if err := duration(EnvReadTimeout, &cfg.Server.ReadTimeout); err != nil {
		return used, err
	}
	if err := duration(EnvWriteTimeout, &cfg.Server.WriteTimeout); err != nil {
		return used, err
	}

	if v := strings.TrimSpace(getenv(EnvAcceptRate)); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return used, fmt.Errorf("%s: %w", EnvAcceptRate, err)
		}
		cfg.Server.AcceptRate = f
		used = true
	}

	if v := getenv(EnvProxyHosts); v != "" {
		cfg.Proxy.AllowedHosts = parseList(v)
		used = true
	}
	return used, nil
}

func parseList(v string) []string {
	var parts []string
	for _, p := range strings.Split(v, ",") {
		if s := strings.TrimSpace(p); s != "" {
			parts = append(parts, s)
		}
	}
	return parts
}
