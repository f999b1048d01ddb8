package ingest

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
)

// maxNameAttempts ограничивает перебор имён при коллизиях.
const maxNameAttempts = 100

// moveFile переносит файл в каталог dir и возвращает новый путь.
//
// Существующий файл в dir никогда не перезаписывается: если имя занято,
// к нему добавляется tag (например, job id), а затем порядковый номер.
// Между файловыми системами файл копируется, затем исходный удаляется.
func moveFile(src, dir, tag string) (string, error) {
	dst, placeholder, err := reserve(dir, filepath.Base(src), tag)
	if err != nil {
		return "", err
	}

	// Rename заменяет только нашу пустую заготовку
	err = os.Rename(src, dst)
	if err == nil {
		placeholder.Close()
		return dst, nil
	}
	if !errors.Is(err, syscall.EXDEV) {
		placeholder.Close()
		os.Remove(dst)
		return "", err
	}

	if err := copyInto(placeholder, src); err != nil {
		os.Remove(dst)
		return "", err
	}
	if err := os.Remove(src); err != nil {
		return "", fmt.Errorf("remove source: %w", err)
	}
	return dst, nil
}

// reserve атомарно создаёт пустой файл с первым свободным именем.
func reserve(dir, name, tag string) (string, *os.File, error) {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)

	for i := 0; i < maxNameAttempts; i++ {
		candidate := name
		switch {
		case i == 1 && tag != "":
			candidate = stem + "_" + tag + ext
		case i > 0:
			candidate = stem + "_" + tag + "_" + strconv.Itoa(i) + ext
			if tag == "" {
				candidate = stem + "_" + strconv.Itoa(i) + ext
			}
		}

		dst := filepath.Join(dir, candidate)
		f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return dst, f, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", nil, err
		}
	}

	return "", nil, fmt.Errorf("no free name for %s in %s", name, dir)
}

func copyInto(out *os.File, src string) error {
	in, err := os.Open(src)
	if err != nil {
		out.Close()
		return err
	}
	defer in.Close()

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy: %w", err)
	}
	return out.Close()
}
