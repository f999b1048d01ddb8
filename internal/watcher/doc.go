// Package watcher обнаруживает полностью записанные файлы в каталоге приёма.
//
// PollingWatcher раз в интервал сканирует каталог по glob-фильтрам и
// вызывает обработчик ровно один раз для каждого файла, пока файл
// непрерывно присутствует в каталоге. Файл считается готовым, если на него
// удаётся взять эксклюзивную блокировку (flock) без ожидания.
//
// Использование:
//
//	w, err := watcher.New(watcher.Config{
//	    Dir:     "/data/inbound",
//	    Filters: []string{"*.pcap", "*.pcapng"},
//	    Logger:  logger,
//	})
//	if err != nil {
//	    return err
//	}
//	defer w.Close()
//
//	w.OnFileReady(func(path string) { ... })
//	if err := w.StartPolling(30 * time.Second); err != nil {
//	    return err
//	}
package watcher
