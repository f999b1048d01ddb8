// Package tracker ведёт журнал обработки по сообщениям этапов pipeline.
//
// Этапы с Ingested по EventProcessed держат job в IN_PROGRESS,
// NOStatsCreated завершает его. Неизвестное состояние переводит job в FAILED.
package tracker
