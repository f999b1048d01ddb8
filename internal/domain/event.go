package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// EventMetaData — метаданные события для корреляции.
type EventMetaData struct {
	ID                int64 `json:"id"`
	JulianDay         int   `json:"julian_day"`
	Ready             bool  `json:"ready"`
	Reprocess         bool  `json:"reprocess"`
	IntervalInSeconds int   `json:"interval_in_seconds"`
}

// ParseEventMetaData собирает EventMetaData из строковых полей сообщения.
func ParseEventMetaData(julianDay, ready, reprocess, interval string) (*EventMetaData, error) {
	var (
		ev  EventMetaData
		err error
	)

	if ev.JulianDay, err = strconv.Atoi(strings.TrimSpace(julianDay)); err != nil {
		return nil, fmt.Errorf("julian day %q: %w", julianDay, err)
	}
	if ev.JulianDay < 1 || ev.JulianDay > 366 {
		return nil, fmt.Errorf("julian day %d out of range", ev.JulianDay)
	}
	if ev.Ready, err = strconv.ParseBool(strings.TrimSpace(ready)); err != nil {
		return nil, fmt.Errorf("ready %q: %w", ready, err)
	}
	if ev.Reprocess, err = strconv.ParseBool(strings.TrimSpace(reprocess)); err != nil {
		return nil, fmt.Errorf("reprocess %q: %w", reprocess, err)
	}
	if ev.IntervalInSeconds, err = strconv.Atoi(strings.TrimSpace(interval)); err != nil {
		return nil, fmt.Errorf("interval %q: %w", interval, err)
	}
	if ev.IntervalInSeconds < 0 {
		return nil, fmt.Errorf("interval %d is negative", ev.IntervalInSeconds)
	}

	return &ev, nil
}
