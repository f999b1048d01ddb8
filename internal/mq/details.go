package mq

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
)

// ConnectionDetails — параметры подключения к RabbitMQ.
//
// Host может содержать порт ("rabbit:5672"). Если Port задан отдельно,
// он подставляется к Host при построении URI.
type ConnectionDetails struct {
	Host     string
	Port     int
	Username string
	Password string
	VHost    string
}

// Validate проверяет, что все обязательные поля заполнены.
func (d *ConnectionDetails) Validate() error {
	if d == nil {
		return ErrInvalidConnectionDetails
	}

	if d.Host == "" {
		return fmt.Errorf("%w: host is empty", ErrInvalidConnectionDetails)
	}
	if d.Username == "" {
		return fmt.Errorf("%w: username is empty", ErrInvalidConnectionDetails)
	}
	if d.Password == "" {
		return fmt.Errorf("%w: password is empty", ErrInvalidConnectionDetails)
	}
	if d.Port < 0 || d.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", ErrInvalidConnectionDetails, d.Port)
	}

	return nil
}

// URI строит amqp:// URI для подключения.
func (d *ConnectionDetails) URI() string {
	return d.url().String()
}

// RedactedURI возвращает URI без пароля, пригодный для логов.
func (d *ConnectionDetails) RedactedURI() string {
	return d.url().Redacted()
}

func (d *ConnectionDetails) url() *url.URL {
	host := d.Host
	if d.Port > 0 {
		if h, _, err := net.SplitHostPort(host); err == nil {
			host = h
		}
		host = net.JoinHostPort(host, strconv.Itoa(d.Port))
	}

	return &url.URL{
		Scheme: "amqp",
		User:   url.UserPassword(d.Username, d.Password),
		Host:   host,
		Path:   "/" + d.VHost,
	}
}
