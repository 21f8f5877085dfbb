// Stagehand — загружает конфигурацию, поднимает БД и кэш и выполняет
// pipeline ровно один раз.
//
// Использование:
//
//	stagehand [--config FILE] [command]
//
// Команды:
//
//	run      Выполнить run (по умолчанию)
//	config   Вывести итоговую конфигурацию
//	version  Вывести версию
//
// Код выхода 0 при DONE, 1 при FAILED.
package main

import (
	"os"

	"github.com/shaiso/Stagehand/internal/cli"
	"github.com/shaiso/Stagehand/internal/telemetry"
)

// version задаётся через ldflags при сборке.
var version = "dev"

func main() {
	logger := telemetry.SetupLogger(os.Stderr)

	rootCmd := cli.NewRootCmd(version, logger)
	if err := rootCmd.Execute(); err != nil {
		cli.NewOutput(os.Stdout, os.Stderr).Error(err.Error())
		os.Exit(1)
	}
}
