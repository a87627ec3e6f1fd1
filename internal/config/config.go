package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hamed0406/tcpmonitor/internal/domain"
)

var (
	ErrNoTargets      = errors.New("no targets configured")
	ErrInvalidTarget  = errors.New("invalid target")
	ErrInvalidSetting = errors.New("invalid setting")
)

type Config struct {
	Addr           string          // status API bind address; empty disables it
	LogDir         string          // operational logs directory
	LogLevel       string          // debug | info | warn | error
	StatsDir       string          // where tcp_stats_YYYYMMDD.log files go
	TargetsFile    string          // YAML file with the target list
	Targets        []domain.Target // in report order
	SocketTimeout  time.Duration   // bound on each of DNS and connect
	ProbeInterval  time.Duration   // between probe cycles
	ReportInterval time.Duration   // between report ticks
	MaxConcurrent  int             // probes in flight per cycle; 0 means one per target

	envErr error // malformed environment values, reported by Validate
}

// FromEnv reads the environment. Malformed numeric values keep their default
// and are reported by Validate.
func FromEnv() Config {
	var errs []error
	cfg := Config{
		Addr:           os.Getenv("API_ADDR"),
		LogDir:         envOr("LOG_DIR", "logs"),
		LogLevel:       envOr("LOG_LEVEL", "info"),
		StatsDir:       envOr("STATS_DIR", "."),
		TargetsFile:    envOr("TARGETS_FILE", "targets.yaml"),
		SocketTimeout:  envMillis("SOCKET_TIMEOUT_MS", 5*time.Second, &errs),
		ProbeInterval:  envMillis("PROBE_INTERVAL_MS", 2*time.Second, &errs),
		ReportInterval: envMillis("REPORT_INTERVAL_MS", 5*time.Minute, &errs),
	}
	if v := os.Getenv("MAX_CONCURRENT_PROBES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			errs = append(errs, fmt.Errorf("MAX_CONCURRENT_PROBES=%q: want an integer >= 0", v))
		} else {
			cfg.MaxConcurrent = n
		}
	}
	cfg.envErr = errors.Join(errs...)
	return cfg
}

// LoadTargets fills cfg.Targets from TARGETS when set, otherwise from the
// targets file.
func (c *Config) LoadTargets() error {
	if inline := strings.TrimSpace(os.Getenv("TARGETS")); inline != "" {
		ts, err := ParseTargets(inline)
		if err != nil {
			return err
		}
		c.Targets = ts
		return nil
	}
	ts, err := ReadTargetsFile(c.TargetsFile)
	if err != nil {
		return err
	}
	c.Targets = ts
	return nil
}

// Validate reports configuration errors that must stop the process.
func (c Config) Validate() error {
	if c.envErr != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSetting, c.envErr)
	}
	if len(c.Targets) == 0 {
		return ErrNoTargets
	}
	for i, t := range c.Targets {
		if err := ValidateTarget(t); err != nil {
			return fmt.Errorf("target %d: %w", i+1, err)
		}
	}
	if c.SocketTimeout <= 0 {
		return fmt.Errorf("%w: socket timeout must be > 0", ErrInvalidSetting)
	}
	if c.ProbeInterval <= 0 {
		return fmt.Errorf("%w: probe interval must be > 0", ErrInvalidSetting)
	}
	if c.ReportInterval <= 0 {
		return fmt.Errorf("%w: report interval must be > 0", ErrInvalidSetting)
	}
	if c.MaxConcurrent < 0 {
		return fmt.Errorf("%w: max concurrent probes must be >= 0", ErrInvalidSetting)
	}
	return nil
}

func ValidateTarget(t domain.Target) error {
	if strings.TrimSpace(t.Service) == "" {
		return fmt.Errorf("%w: empty service", ErrInvalidTarget)
	}
	if strings.TrimSpace(t.Hostname) == "" {
		return fmt.Errorf("%w: %s: empty hostname", ErrInvalidTarget, t.Service)
	}
	if t.Port < 1 || t.Port > 65535 {
		return fmt.Errorf("%w: %s: port %d out of range", ErrInvalidTarget, t.Service, t.Port)
	}
	return nil
}

type targetsFile struct {
	Targets []domain.Target `yaml:"targets"`
}

func ReadTargetsFile(path string) ([]domain.Target, error) {
	content, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s not found", ErrNoTargets, path)
	}
	if err != nil {
		return nil, fmt.Errorf("read targets: %w", err)
	}
	var f targetsFile
	if err := yaml.Unmarshal(content, &f); err != nil {
		return nil, fmt.Errorf("parse targets: %w", err)
	}
	if len(f.Targets) == 0 {
		return nil, fmt.Errorf("%w: %s has no entries", ErrNoTargets, path)
	}
	return f.Targets, nil
}

// ParseTargets parses "service=host:port" entries separated by commas.
func ParseTargets(s string) ([]domain.Target, error) {
	var out []domain.Target
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		svc, hostport, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("%w: %q: want service=host:port", ErrInvalidTarget, part)
		}
		i := strings.LastIndex(hostport, ":")
		if i < 0 {
			return nil, fmt.Errorf("%w: %q: missing port", ErrInvalidTarget, part)
		}
		port, err := strconv.Atoi(hostport[i+1:])
		if err != nil {
			return nil, fmt.Errorf("%w: %q: bad port", ErrInvalidTarget, part)
		}
		host := strings.Trim(hostport[:i], "[]")
		out = append(out, domain.Target{Service: strings.TrimSpace(svc), Hostname: host, Port: port})
	}
	if len(out) == 0 {
		return nil, ErrNoTargets
	}
	return out, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envMillis(key string, def time.Duration, errs *[]error) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	ms, err := strconv.Atoi(v)
	if err != nil || ms <= 0 {
		*errs = append(*errs, fmt.Errorf("%s=%q: want milliseconds > 0", key, v))
		return def
	}
	return time.Duration(ms) * time.Millisecond
}
