package mq

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ProcessingState — этап обработки файла в pipeline.
//
// Жизненный цикл:
//
//	Ingested → Validated → Processing → PcapProcessed → EventProcessed → NOStatsCreated
//
// На проводе передаётся порядковым номером, при чтении принимается и имя.
type ProcessingState int

const (
	// StateIngested — файл обнаружен и принят.
	StateIngested ProcessingState = iota

	// StateValidated — файл прошёл валидацию.
	StateValidated

	// StateProcessing — файл обрабатывается.
	StateProcessing

	// StatePcapProcessed — pcap распакован и проиндексирован.
	StatePcapProcessed

	// StateEventProcessed — выполнена корреляция по событиям.
	StateEventProcessed

	// StateNOStatsCreated — сформирована статистика network observability.
	StateNOStatsCreated
)

var stateNames = [...]string{
	StateIngested:       "Ingested",
	StateValidated:      "Validated",
	StateProcessing:     "Processing",
	StatePcapProcessed:  "PcapProcessed",
	StateEventProcessed: "EventProcessed",
	StateNOStatsCreated: "NOStatsCreated",
}

// String возвращает имя состояния.
func (s ProcessingState) String() string {
	if s.IsValid() {
		return stateNames[s]
	}
	return "ProcessingState(" + strconv.Itoa(int(s)) + ")"
}

// IsValid проверяет, что значение входит в перечисление.
func (s ProcessingState) IsValid() bool {
	return s >= StateIngested && int(s) < len(stateNames)
}

// ParseProcessingState парсит имя или порядковый номер состояния.
// Номер вне перечисления считается ошибкой.
func ParseProcessingState(v string) (ProcessingState, error) {
	for i, name := range stateNames {
		if name == v {
			return ProcessingState(i), nil
		}
	}

	n, err := strconv.Atoi(v)
	if err != nil || !ProcessingState(n).IsValid() {
		return 0, fmt.Errorf("unknown processing state %q", v)
	}
	return ProcessingState(n), nil
}

// MarshalJSON кодирует состояние числом.
func (s ProcessingState) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Itoa(int(s))), nil
}

// UnmarshalJSON принимает число или строку с именем.
// Число не проверяется: неизвестное состояние разбирает получатель.
func (s *ProcessingState) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	if len(data) > 0 && data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		parsed, err := ParseProcessingState(name)
		if err != nil {
			return err
		}
		*s = parsed
		return nil
	}

	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("processing state: %w", err)
	}
	*s = ProcessingState(n)
	return nil
}

// RabbitMQMessage — базовое сообщение о состоянии job.
type RabbitMQMessage struct {
	// JobPK — первичный ключ записи job в журнале обработки.
	JobPK int64 `json:"JobPK"`

	// JobID — идентификатор job.
	JobID string `json:"JobID"`

	// State — текущий этап обработки.
	State ProcessingState `json:"State"`
}

// PcapValidatedMessage — файл принят и лежит по PathAndFileName.
type PcapValidatedMessage struct {
	RabbitMQMessage
	PathAndFileName string `json:"PathAndFileName"`
}

// EventMetaDataMessage — метаданные события. Все поля передаются строками.
type EventMetaDataMessage struct {
	JulianDay         string `json:"JulianDay"`
	Ready             string `json:"Ready"`
	ReProcess         string `json:"ReProcess"`
	IntervalInSeconds string `json:"IntervalInSeconds"`
}
