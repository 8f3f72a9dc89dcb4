package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Load reads configuration from environment variables, applies defaults and
// validates the result.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := loadStruct(reflect.ValueOf(cfg).Elem()); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

var durationType = reflect.TypeOf(time.Duration(0))

// loadStruct fills v from the env, envAlt and default tags, recursing into
// nested groups. Every bad value is reported, not just the first.
func loadStruct(v reflect.Value) error {
	var errs []error
	t := v.Type()

	for i := range t.NumField() {
		sf, fv := t.Field(i), v.Field(i)
		if !fv.CanSet() {
			continue
		}
		if sf.Type.Kind() == reflect.Struct {
			if err := loadStruct(fv); err != nil {
				errs = append(errs, err)
			}
			continue
		}

		name := sf.Tag.Get("env")
		if name == "" {
			continue
		}
		raw, ok := lookup(name, sf.Tag.Get("envAlt"))
		if !ok {
			raw = sf.Tag.Get("default")
		}
		if raw == "" {
			continue
		}
		if err := parseInto(fv, raw); err != nil {
			errs = append(errs, fmt.Errorf("invalid value for %s=%q: %w", name, raw, err))
		}
	}
	return errors.Join(errs...)
}

// lookup returns the first non-empty value among the given variable names.
func lookup(names ...string) (string, bool) {
	for _, n := range names {
		if n == "" {
			continue
		}
		if v := strings.TrimSpace(os.Getenv(n)); v != "" {
			return v, true
		}
	}
	return "", false
}

// parseInto converts raw to the kind of fv and stores it.
func parseInto(fv reflect.Value, raw string) error {
	if fv.Type() == durationType {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return err
		}
		fv.SetInt(int64(d))
		return nil
	}

	switch fv.Kind() {
	case reflect.String:
		fv.SetString(raw)
	case reflect.Int, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return err
		}
		fv.SetInt(n)
	case reflect.Float64:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return err
		}
		fv.SetFloat(f)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}
		fv.SetBool(b)
	case reflect.Slice:
		if fv.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice of %s", fv.Type().Elem())
		}
		fv.Set(reflect.ValueOf(splitList(raw)))
	default:
		return fmt.Errorf("unsupported kind %s", fv.Kind())
	}
	return nil
}

// splitList splits a comma-separated list, dropping blank entries.
func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks the settings both binaries share.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string

	// API validation
	if err := checkURL(c.API.BaseURL); err != nil {
		errs = append(errs, fmt.Sprintf("API_BASE_URL (%q) %v", c.API.BaseURL, err))
	}
	if c.API.Timeout <= 0 {
		errs = append(errs, "API_TIMEOUT must be positive")
	}
	if c.API.MaxRetries < 0 {
		errs = append(errs, "API_MAX_RETRIES must be non-negative")
	}
	if c.API.RateLimit <= 0 {
		errs = append(errs, "API_RATE_LIMIT must be positive")
	}
	if c.API.RateBurst <= 0 {
		errs = append(errs, "API_RATE_BURST must be positive")
	}

	// Wizard validation
	if strings.TrimSpace(c.Wizard.DownloadDir) == "" {
		errs = append(errs, "DOWNLOAD_DIR must not be empty")
	}

	// Proxy validation
	if c.Proxy.Port <= 0 || c.Proxy.Port > 65535 {
		errs = append(errs, fmt.Sprintf("PROXY_PORT (%d) must be 1-65535", c.Proxy.Port))
	}
	if c.Proxy.MaxConcurrent <= 0 {
		errs = append(errs, "PROXY_MAX_CONCURRENT must be positive")
	}
	if c.Proxy.MaxWait <= 0 {
		errs = append(errs, "PROXY_MAX_WAIT must be positive")
	}
	if c.Proxy.ReadTimeout < 0 {
		errs = append(errs, "PROXY_READ_TIMEOUT must be non-negative")
	}
	if c.Proxy.ShutdownTimeout <= 0 {
		errs = append(errs, "PROXY_SHUTDOWN_TIMEOUT must be positive")
	}

	// History validation
	if c.History.MaxConns <= 0 {
		errs = append(errs, "DB_MAX_CONNS must be positive")
	}

	// Logging validation
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Sprintf("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level))
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Sprintf("LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// ValidateProxy checks the settings only the proxy needs.
func (c *Config) ValidateProxy() error {
	if c.Proxy.Target == "" {
		return fmt.Errorf("PROXY_TARGET is required")
	}
	if err := checkURL(c.Proxy.Target); err != nil {
		return fmt.Errorf("PROXY_TARGET (%q) %v", c.Proxy.Target, err)
	}
	return nil
}

func checkURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("is not a URL: %v", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("must use http or https")
	}
	if u.Host == "" {
		return fmt.Errorf("must include a host")
	}
	return nil
}

// String returns a safe string representation of the config for logging.
// The token and database URL are masked.
func (c *Config) String() string {
	var b strings.Builder
	b.WriteString("Config{")
	b.WriteString(fmt.Sprintf("API: {BaseURL: %q, Timeout: %v, MaxRetries: %d, RateLimit: %g, RateBurst: %d}, ",
		c.API.BaseURL, c.API.Timeout, c.API.MaxRetries, c.API.RateLimit, c.API.RateBurst))
	b.WriteString(fmt.Sprintf("Auth: {Token: %s, TokenFile: %q}, ", mask(c.Auth.Token), c.Auth.TokenFile))
	b.WriteString(fmt.Sprintf("Wizard: {DownloadDir: %q, PreviewUpload: %v}, ",
		c.Wizard.DownloadDir, c.Wizard.PreviewUpload))
	b.WriteString(fmt.Sprintf("Proxy: {Addr: %q, Target: %q, MaxConcurrent: %d}, ",
		c.Proxy.Addr(), c.Proxy.Target, c.Proxy.MaxConcurrent))
	b.WriteString(fmt.Sprintf("History: {DatabaseURL: %s, MaxConns: %d}, ",
		mask(c.History.DatabaseURL), c.History.MaxConns))
	b.WriteString(fmt.Sprintf("Logging: {Level: %q, Format: %q}",
		c.Logging.Level, c.Logging.Format))
	b.WriteString("}")
	return b.String()
}

func mask(s string) string {
	if s == "" {
		return "[UNSET]"
	}
	return "[MASKED]"
}
