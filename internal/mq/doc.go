// Package mq публикует результаты pipeline в RabbitMQ.
//
// Структура:
//   - connection.go — соединение и канал (без reconnect: процесс живёт один run)
//   - topology.go   — объявление exchange, queue, binding
//   - publisher.go  — публикация сообщений
//
// Типы сообщений:
//   - results.saved — результат run (используется sink "amqp")
package mq
