package watcher

import "errors"

// Ошибки конфигурации watcher. Все они фатальны и не повторяются.
var (
	// ErrNoDirectory — путь каталога не задан.
	ErrNoDirectory = errors.New("watch directory is not set")

	// ErrDirectoryNotFound — каталог не существует на момент StartPolling.
	ErrDirectoryNotFound = errors.New("watch directory not found")

	// ErrNoFilters — после отбрасывания пустых фильтров не осталось ни одного.
	ErrNoFilters = errors.New("no file filters")

	// ErrBadFilter — фильтр не является корректным glob-шаблоном.
	ErrBadFilter = errors.New("bad file filter")

	// ErrNoHandler — обработчик готовых файлов не зарегистрирован.
	ErrNoHandler = errors.New("file ready handler is not registered")

	// ErrWatcherClosed — watcher уже закрыт через Close.
	ErrWatcherClosed = errors.New("watcher closed")
)
