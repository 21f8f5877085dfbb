package cli

import (
	"fmt"
	"io"

	"github.com/shaiso/Stagehand/internal/config"
	"github.com/shaiso/Stagehand/internal/domain"
)

// Output управляет форматированием вывода CLI.
type Output struct {
	w    io.Writer // stdout для данных
	errW io.Writer // stderr для сообщений
}

// NewOutput создаёт Output.
func NewOutput(w, errW io.Writer) *Output {
	return &Output{
		w:    w,
		errW: errW,
	}
}

// Config выводит конфигурацию в YAML.
func (o *Output) Config(cfg domain.Configuration) error {
	return config.Encode(o.w, cfg)
}

// Line выводит строку данных в stdout.
func (o *Output) Line(format string, args ...any) {
	fmt.Fprintf(o.w, format+"\n", args...)
}

// Error выводит сообщение об ошибке в stderr.
func (o *Output) Error(msg string) {
	fmt.Fprintln(o.errW, "Error: "+msg)
}
