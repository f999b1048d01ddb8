// Package config читает настройки процессов netobs из переменных окружения.
//
// GetEnv и GetEnvAs требуют, чтобы переменная была задана, и возвращают
// *EnvNotSetError иначе. GetEnvOrDefault подставляет значение по умолчанию.
package config
