package watcher

import (
	"os"

	"github.com/gofrs/flock"
)

// Probe сообщает, свободен ли файл для обработки.
type Probe func(path string) bool

// FileAvailable пробует взять эксклюзивную блокировку на файл без ожидания.
//
// Возвращает false, если файл удерживает другой писатель или его не удалось открыть.
// Блокировка сразу снимается. Файл открывается только на чтение и не создаётся.
func FileAvailable(path string) bool {
	lock := flock.New(path, flock.SetFlag(os.O_RDONLY))
	defer lock.Close()

	ok, err := lock.TryLock()
	if err != nil {
		return false
	}

	return ok
}
