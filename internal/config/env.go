package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// ErrEnvNotSet — обязательная переменная окружения не задана.
var ErrEnvNotSet = errors.New("environment variable not set")

// EnvNotSetError — обязательная переменная Name отсутствует или пуста.
type EnvNotSetError struct {
	Name string
}

func (e *EnvNotSetError) Error() string {
	return fmt.Sprintf("environment variable %s not set", e.Name)
}

func (e *EnvNotSetError) Unwrap() error {
	return ErrEnvNotSet
}

// Value — типы, в которые умеют разбираться переменные окружения.
// time.Duration задаётся в миллисекундах ("30000") или строкой Go ("30s").
type Value interface {
	string | int | int64 | bool | time.Duration
}

// GetEnv возвращает значение обязательной переменной.
func GetEnv(name string) (string, error) {
	v, ok := os.LookupEnv(name)
	if !ok || strings.TrimSpace(v) == "" {
		return "", &EnvNotSetError{Name: name}
	}
	return v, nil
}

// GetEnvAs возвращает значение обязательной переменной, приведённое к T.
func GetEnvAs[T Value](name string) (T, error) {
	var zero T

	raw, err := GetEnv(name)
	if err != nil {
		return zero, err
	}

	v, err := parse[T](strings.TrimSpace(raw))
	if err != nil {
		return zero, fmt.Errorf("parse %s: %w", name, err)
	}
	return v, nil
}

// GetEnvOrDefault возвращает значение переменной или def, если она не задана.
// Ошибка возвращается только если значение задано, но не разбирается.
func GetEnvOrDefault[T Value](name string, def T) (T, error) {
	v, err := GetEnvAs[T](name)
	if errors.Is(err, ErrEnvNotSet) {
		return def, nil
	}
	return v, err
}

func parse[T Value](raw string) (T, error) {
	var out T

	switch p := any(&out).(type) {
	case *string:
		*p = raw
	case *int:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return out, err
		}
		*p = n
	case *int64:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return out, err
		}
		*p = n
	case *bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return out, err
		}
		*p = b
	case *time.Duration:
		if ms, err := strconv.ParseInt(raw, 10, 64); err == nil {
			*p = time.Duration(ms) * time.Millisecond
			return out, nil
		}
		d, err := time.ParseDuration(raw)
		if err != nil {
			return out, err
		}
		*p = d
	}

	return out, nil
}
