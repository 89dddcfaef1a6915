package quick

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/LixenWraith/filelog"
	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
)

// config applies "key=value" overrides to base.
// Keys match the toml tags of filelog.Config, case-insensitively.
func config(base filelog.Config, args ...string) (filelog.Config, error) {
	cfg := base
	for _, arg := range args {
		key, value, err := parseKeyValue(arg)
		if err != nil {
			return base, errors.Wrapf(err, "invalid config format: %s", arg)
		}
		if err := setValue(&cfg, key, value); err != nil {
			return base, errors.Wrap(err, "config error")
		}
	}
	if err := cfg.Validate(); err != nil {
		return base, err
	}
	return cfg, nil
}

// parseKeyValue splits a configuration string into key and value parts.
// Input format must be "key=value". Leading and trailing spaces are removed from both parts.
func parseKeyValue(arg string) (string, string, error) {
	key, value, ok := strings.Cut(strings.TrimSpace(arg), "=")
	if !ok {
		return "", "", errors.New("invalid format")
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return "", "", errors.New("empty key")
	}
	return key, strings.TrimSpace(value), nil
}

// setValue updates a Config field using reflection.
// Kilobyte fields ("_kb") also accept humanized sizes such as "10MB".
func setValue(cfg *filelog.Config, key, value string) error {
	key = strings.ToLower(key)

	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.Tag.Get("toml") != key {
			continue
		}
		f := v.Field(i)

		if field.Type == reflect.TypeOf(filelog.Level(0)) {
			level, err := filelog.ParseLevel(value)
			if err != nil {
				return err
			}
			f.SetInt(int64(level))
			return nil
		}

		switch f.Kind() {
		case reflect.String:
			f.SetString(value)
		case reflect.Bool:
			b, err := strconv.ParseBool(value)
			if err != nil {
				return errors.Newf("invalid bool value for %s: %s", key, value)
			}
			f.SetBool(b)
		case reflect.Int64:
			n, err := parseInt(key, value)
			if err != nil {
				return err
			}
			f.SetInt(n)
		default:
			return errors.Newf("unsupported type for %s: %s", key, f.Kind())
		}
		return nil
	}
	return errors.Newf("unknown config key: %s", key)
}

// parseInt parses plain integers, and humanized sizes for kilobyte keys.
// Sizes round up to whole kilobytes so a small size never becomes 0.
func parseInt(key, value string) (int64, error) {
	if n, err := strconv.ParseInt(value, 10, 64); err == nil {
		return n, nil
	}
	if strings.HasSuffix(key, "_kb") {
		bytes, err := humanize.ParseBytes(value)
		if err != nil {
			return 0, errors.Newf("invalid size for %s: %s", key, value)
		}
		kb := bytes / 1000
		if bytes%1000 != 0 {
			kb++
		}
		return int64(kb), nil
	}
	return 0, errors.Newf("invalid int64 value for %s: %s", key, value)
}
