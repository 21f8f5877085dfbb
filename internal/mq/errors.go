package mq

import "errors"

// Ошибки MQ.
var (
	// ErrNoChannel — канал не открыт или соединение закрыто.
	ErrNoChannel = errors.New("no channel available")

	// ErrInvalidTopology — не заданы имена exchange/queue/routing key.
	ErrInvalidTopology = errors.New("invalid topology")
)
