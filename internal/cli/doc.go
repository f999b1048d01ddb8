// Package cli реализует инструмент командной строки netobs.
//
// # Обзор
//
// Две группы команд:
//   - job: list, show — журнал обработки через HTTP API трекера
//   - queue: push, read — публикация и чтение сообщений pipeline напрямую в RabbitMQ
//
// # Ключевые компоненты
//
// ## Client
//
// HTTP-клиент для jobs API. Инкапсулирует HTTP-запросы,
// разбор конвертов {"data"}, {"data", "total"} и {"error"}
// и обработку ошибок.
//
//	client := cli.NewClient("http://localhost:8081")
//	jobs, err := client.ListJobs(20)
//
// ## Output
//
// Форматирование вывода. Поддерживает два режима:
//   - Таблицы (text/tabwriter) — по умолчанию
//   - JSON — с флагом --json
//
// Данные выводятся в stdout, служебные сообщения (Success) — в stderr.
// Это позволяет использовать pipe: netobs job list --json | jq .
//
// Каждая группа создаётся через фабричную функцию (NewJobCmd, NewQueueCmd),
// принимающую замыкания для ленивого создания Client, Messenger и Output
// после парсинга PersistentFlags.
package cli
