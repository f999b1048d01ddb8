package watcher

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"
	"sync"
	"time"

	"github.com/shaiso/Netobs/internal/telemetry"
)

// DefaultInterval — интервал опроса по умолчанию.
const DefaultInterval = 30 * time.Second

// state — состояние PollingWatcher.
//
// Жизненный цикл:
//
//	created → watching ⇄ stopped
//	любое → closed (финальное)
type state int

const (
	stateCreated state = iota
	stateWatching
	stateStopped
	stateClosed
)

// PollingWatcher периодически сканирует каталог и сообщает о готовых файлах.
//
// Каждый файл сообщается один раз за время его непрерывного присутствия
// в каталоге. Если файл исчез и появился снова (или был заменён другим
// файлом с тем же именем), он будет сообщён повторно.
// Файл, занятый другим писателем, пропускается до следующего сканирования.
//
// На каждый сообщённый файл держится открытый дескриптор, пока файл
// не исчезнет из каталога. Пока дескриптор открыт, inode удалённого файла
// не может достаться новому файлу с тем же именем, поэтому удаление
// и повторное создание между сканированиями всегда различимы.
//
// Сканирования никогда не перекрываются: таймер взводится заново только
// после завершения текущего сканирования. Обработчик вызывается синхронно
// внутри сканирования, поэтому медленный обработчик задерживает следующие.
type PollingWatcher struct {
	*FileWatcher

	logger  *slog.Logger
	metrics *telemetry.Metrics
	probe   Probe

	mu       sync.Mutex
	state    state
	gen      uint64
	interval time.Duration
	timer    *time.Timer

	// scanMu сериализует сканирования; inFlight меняется только под ним.
	scanMu   sync.Mutex
	inFlight map[string]*tracked
}

// tracked — файл, уже переданный обработчику.
type tracked struct {
	info os.FileInfo
	// pin удерживает inode. nil, если файл не удалось открыть.
	pin *os.File
}

func (t *tracked) release() {
	if t.pin != nil {
		t.pin.Close()
		t.pin = nil
	}
}

// Config — конфигурация PollingWatcher.
type Config struct {
	// Dir — наблюдаемый каталог. Должен существовать на момент StartPolling.
	Dir string

	// Filters — glob-шаблоны имён файлов (например, "*.pcap").
	// Пустые шаблоны отбрасываются, должен остаться хотя бы один.
	Filters []string

	// Probe — проверка занятости файла (default: FileAvailable).
	Probe Probe

	Logger  *slog.Logger
	Metrics *telemetry.Metrics
}

// New создаёт PollingWatcher. Опрос не начинается до StartPolling.
func New(cfg Config) (*PollingWatcher, error) {
	base, err := newFileWatcher(cfg.Dir, cfg.Filters)
	if err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	probe := cfg.Probe
	if probe == nil {
		probe = FileAvailable
	}

	return &PollingWatcher{
		FileWatcher: base,
		logger:      logger.With("dir", base.dir),
		metrics:     cfg.Metrics,
		probe:       probe,
		inFlight:    make(map[string]*tracked),
	}, nil
}

// StartPolling проверяет каталог и запускает опрос с интервалом interval.
// Первое сканирование выполняется сразу. interval <= 0 означает DefaultInterval.
//
// Повторный вызов перезапускает опрос с новым интервалом.
func (w *PollingWatcher) StartPolling(interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultInterval
	}

	info, err := os.Stat(w.dir)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrDirectoryNotFound, w.dir)
	}

	if !w.hasHandler() {
		return ErrNoHandler
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state == stateClosed {
		return ErrWatcherClosed
	}

	w.stopTimerLocked()
	w.gen++
	w.state = stateWatching
	w.interval = interval
	w.armLocked(0)

	w.logger.Info("polling started", "interval", interval, "filters", w.filters)
	return nil
}

// StopPolling отключает будущие сканирования.
// Уже идущее сканирование не прерывается.
func (w *PollingWatcher) StopPolling() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != stateWatching {
		return
	}

	w.stopTimerLocked()
	w.gen++
	w.state = stateStopped

	w.logger.Info("polling stopped")
}

// Close останавливает опрос, освобождает таймер и дескрипторы
// отслеживаемых файлов. Повторные вызовы ничего не делают.
// Дожидается идущего сканирования, поэтому не вызывается из обработчика.
func (w *PollingWatcher) Close() error {
	w.mu.Lock()
	if w.state == stateClosed {
		w.mu.Unlock()
		return nil
	}
	w.stopTimerLocked()
	w.gen++
	w.state = stateClosed
	w.mu.Unlock()

	w.scanMu.Lock()
	defer w.scanMu.Unlock()
	for path, t := range w.inFlight {
		t.release()
		delete(w.inFlight, path)
	}

	return nil
}

// IsPolling сообщает, взведён ли опрос.
func (w *PollingWatcher) IsPolling() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state == stateWatching
}

func (w *PollingWatcher) armLocked(delay time.Duration) {
	gen := w.gen
	w.timer = time.AfterFunc(delay, func() { w.tick(gen) })
}

func (w *PollingWatcher) stopTimerLocked() {
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}

// tick — срабатывание таймера. Сканирует и взводит таймер снова,
// если за время сканирования опрос не был остановлен или перезапущен.
func (w *PollingWatcher) tick(gen uint64) {
	w.mu.Lock()
	if w.state != stateWatching || w.gen != gen {
		w.mu.Unlock()
		return
	}
	w.timer = nil
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		if w.state == stateWatching && w.gen == gen {
			w.armLocked(w.interval)
		}
	}()

	w.Scan()
}

// Scan выполняет одно сканирование каталога.
//
//  1. Перечисляет файлы, подходящие под фильтры (фильтр за фильтром)
//  2. Забывает файлы, которых больше нет в каталоге или которые подменены
//  3. Для каждого нового файла проверяет блокировку; свободный файл
//     запоминается и передаётся обработчику
//
// Ошибки и паники внутри сканирования логируются и не останавливают опрос.
func (w *PollingWatcher) Scan() {
	w.scanMu.Lock()
	defer w.scanMu.Unlock()

	start := time.Now()
	w.logger.Debug("polling event", "at", start.Format("15:04:05.000"))

	defer func() {
		if r := recover(); r != nil {
			w.metrics.ScanFailed()
			w.logger.Error("panic while processing file",
				"error", r,
				"stack", string(debug.Stack()),
			)
		}
		w.metrics.ObserveScan(time.Since(start))
	}()

	files, err := w.enumerate()
	if err != nil {
		w.metrics.ScanFailed()
		w.logger.Error("error found while scanning directory", "error", err)
		return
	}

	present := make(map[string]os.FileInfo, len(files))
	for _, f := range files {
		present[f.path] = f.info
	}
	// Файл, которого нет, или файл, подменённый другим по тому же пути,
	// считается исчезнувшим.
	for path, t := range w.inFlight {
		cur, ok := present[path]
		if !ok || !os.SameFile(t.info, cur) {
			t.release()
			delete(w.inFlight, path)
		}
	}

	for _, f := range files {
		if _, ok := w.inFlight[f.path]; ok {
			continue
		}

		if !w.probe(f.path) {
			w.logger.Debug("file is locked, deferring", "file", f.path)
			continue
		}

		w.inFlight[f.path] = track(f)
		w.metrics.FileDetected()
		w.logger.Info("file found", "file", f.path)

		w.notify(f.path)
	}
}

type file struct {
	path string
	info os.FileInfo
}

// track открывает файл и запоминает его идентичность по открытому дескриптору.
// Если файл открыть не удалось, запоминается результат stat из сканирования.
func track(f file) *tracked {
	pin, err := os.Open(f.path)
	if err != nil {
		return &tracked{info: f.info}
	}

	// Симлинк или файл, подменённый после чтения каталога, не закрепляем
	info, err := pin.Stat()
	if err != nil || !os.SameFile(info, f.info) {
		pin.Close()
		return &tracked{info: f.info}
	}

	return &tracked{info: info, pin: pin}
}

// enumerate возвращает файлы, подходящие под фильтры.
// Файл, подходящий под несколько фильтров, встречается несколько раз.
func (w *PollingWatcher) enumerate() ([]file, error) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}

	var files []file
	for _, pattern := range w.filters {
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			ok, err := filepath.Match(pattern, e.Name())
			if err != nil {
				return nil, fmt.Errorf("match %q: %w", pattern, err)
			}
			if !ok {
				continue
			}

			info, err := e.Info()
			if err != nil {
				// Файл удалён между чтением каталога и stat
				continue
			}
			files = append(files, file{path: filepath.Join(w.dir, e.Name()), info: info})
		}
	}

	return files, nil
}

// InFlight возвращает число файлов, уже переданных обработчику.
func (w *PollingWatcher) InFlight() int {
	w.scanMu.Lock()
	defer w.scanMu.Unlock()
	return len(w.inFlight)
}
