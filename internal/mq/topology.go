package mq

import (
	"fmt"
)

// Очереди по умолчанию. Реальные имена приходят из окружения.
const (
	// DefaultPcapProcessQueue — очередь работы для обработчика pcap.
	DefaultPcapProcessQueue = "pcap.process"

	// DefaultEventDataProcessQueue — очередь метаданных событий.
	DefaultEventDataProcessQueue = "eventdata.process"

	// DefaultJobStateQueue — очередь, в которую этапы объявляют смену состояния job.
	DefaultJobStateQueue = "job.state"
)

// declareQueue объявляет durable очередь.
// Повторное объявление с теми же свойствами ничего не меняет.
func declareQueue(ch Channel, name string) error {
	if name == "" {
		return ErrEmptyQueueName
	}

	_, err := ch.QueueDeclare(
		name,  // name
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue %s: %w", name, err)
	}

	return nil
}
