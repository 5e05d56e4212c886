package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
)

// processStructFields overrides every field tagged `env:"NAME"` whose variable is set.
// Nested section structs are walked recursively.
func processStructFields(target interface{}) error {
	return applyEnv(reflect.Indirect(reflect.ValueOf(target)))
}

func applyEnv(section reflect.Value) error {
	if section.Kind() != reflect.Struct {
		return nil
	}

	for i := 0; i < section.NumField(); i++ {
		field, meta := section.Field(i), section.Type().Field(i)
		if field.Kind() == reflect.Struct {
			if err := applyEnv(field); err != nil {
				return err
			}
			continue
		}

		name, ok := meta.Tag.Lookup("env")
		if !ok {
			continue
		}
		raw, set := os.LookupEnv(name)
		if !set {
			continue
		}
		if err := assignEnv(field, raw); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

// assignEnv supports the kinds Config uses: strings, ints, bools and string maps.
func assignEnv(field reflect.Value, raw string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(raw)
	case reflect.Int:
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("expected an integer, got %q", raw)
		}
		field.SetInt(int64(n))
	case reflect.Bool:
		b, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("expected a boolean, got %q", raw)
		}
		field.SetBool(b)
	case reflect.Map:
		if field.Type() != reflect.TypeOf(map[string]string(nil)) {
			return fmt.Errorf("unsupported map type %s", field.Type())
		}
		entries, err := parseMapValue(raw)
		if err != nil {
			return err
		}
		field.Set(reflect.ValueOf(entries))
	default:
		return fmt.Errorf("unsupported field kind %s", field.Kind())
	}
	return nil
}

// parseMapValue reads "key=value,key2=value2". Keys may contain spaces ("computer science=160").
func parseMapValue(value string) (map[string]string, error) {
	entries := make(map[string]string)
	for _, pair := range strings.Split(value, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		key, val, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("invalid map entry %q, expected key=value", pair)
		}
		entries[strings.TrimSpace(key)] = strings.TrimSpace(val)
	}
	return entries, nil
}
