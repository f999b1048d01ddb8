package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// CreateDirectory создаёт каталог со всеми родителями.
// При deleteExisting существующий каталог сначала удаляется вместе с содержимым.
func CreateDirectory(dir string, deleteExisting bool) error {
	if dir == "" {
		return errors.New("directory path is empty")
	}

	if deleteExisting {
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("remove %s: %w", dir, err)
		}
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	return nil
}

// DeleteFile удаляет файл. Отсутствующий файл ошибкой не считается.
func DeleteFile(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete %s: %w", path, err)
	}
	return nil
}
