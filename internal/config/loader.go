package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// loadFile parses the YAML file at path into cfg. A missing file is not an
// error; the caller's defaults and env overrides stand in. .env files are
// loaded first so env overrides see them.
func loadFile(path string, cfg *Config) error {
	if err := loadEnvFiles(); err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

// loadEnvFiles loads .env files in priority order: ENV_FILE if set,
// otherwise .env.local over .env. Missing files are ignored.
func loadEnvFiles() error {
	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("load env file %s: %w", envFile, err)
		}
		return nil
	}
	for _, name := range []string{".env.local", ".env"} {
		if err := godotenv.Load(name); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("load %s: %w", name, err)
		}
	}
	return nil
}

// applyEnvOverrides walks the config struct and overwrites fields whose
// `env` tag names a set environment variable.
func applyEnvOverrides(cfg any) {
	v := reflect.ValueOf(cfg)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	overrideStruct(v)
}

func overrideStruct(v reflect.Value) {
	if v.Kind() != reflect.Struct {
		return
	}
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		if !field.CanSet() {
			continue
		}
		if field.Kind() == reflect.Struct && field.Type() != reflect.TypeOf(time.Time{}) {
			overrideStruct(field)
			continue
		}

		envName := t.Field(i).Tag.Get("env")
		if envName == "" {
			continue
		}
		val, ok := os.LookupEnv(envName)
		if !ok || val == "" {
			continue
		}
		setField(field, val)
	}
}

func setField(field reflect.Value, val string) {
	switch field.Kind() {
	case reflect.String:
		field.SetString(val)
	case reflect.Bool:
		field.SetBool(isTruthy(val))
	case reflect.Int, reflect.Int64:
		if field.Type() == reflect.TypeOf(time.Duration(0)) {
			if d, err := time.ParseDuration(val); err == nil {
				field.SetInt(int64(d))
			}
			return
		}
		if n, err := strconv.ParseInt(val, 10, 64); err == nil {
			field.SetInt(n)
		}
	case reflect.Slice:
		if field.Type().Elem().Kind() == reflect.String {
			parts := strings.Split(val, ",")
			for i := range parts {
				parts[i] = strings.TrimSpace(parts[i])
			}
			field.Set(reflect.ValueOf(parts))
		}
	}
}

// isTruthy accepts true/1/yes, case-insensitive.
func isTruthy(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes"
}

// Path returns the config path from CONFIG_PATH or the given default.
func Path(defaultPath string) string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return defaultPath
}
