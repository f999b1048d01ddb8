package watcher

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
)

// Handler вызывается для каждого готового файла с его полным путём.
type Handler func(path string)

// FileWatcher — общая часть watcher'ов: каталог, фильтры и обработчик.
//
// Каталог и фильтры неизменяемы после создания.
type FileWatcher struct {
	dir     string
	filters []string

	mu      sync.RWMutex
	handler Handler
}

// newFileWatcher проверяет каталог и фильтры.
// Пустые фильтры отбрасываются; если не осталось ни одного — ошибка.
func newFileWatcher(dir string, filters []string) (*FileWatcher, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, ErrNoDirectory
	}

	clean := make([]string, 0, len(filters))
	for _, f := range filters {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		if _, err := filepath.Match(f, ""); err != nil {
			return nil, fmt.Errorf("%w %q: %v", ErrBadFilter, f, err)
		}
		clean = append(clean, f)
	}
	if len(clean) == 0 {
		return nil, ErrNoFilters
	}

	return &FileWatcher{
		dir:     dir,
		filters: clean,
	}, nil
}

// Dir возвращает наблюдаемый каталог.
func (w *FileWatcher) Dir() string {
	return w.dir
}

// Filters возвращает копию фильтров в исходном порядке.
func (w *FileWatcher) Filters() []string {
	return append([]string(nil), w.filters...)
}

// OnFileReady регистрирует обработчик готовых файлов.
// Должен быть вызван до StartPolling.
func (w *FileWatcher) OnFileReady(h Handler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handler = h
}

func (w *FileWatcher) hasHandler() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.handler != nil
}

// notify вызывает обработчик синхронно. Без обработчика ничего не делает.
func (w *FileWatcher) notify(path string) {
	w.mu.RLock()
	h := w.handler
	w.mu.RUnlock()

	if h != nil {
		h(path)
	}
}
