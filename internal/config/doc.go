// Package config загружает конфигурацию run.
//
// Provider — единая точка получения domain.Configuration:
//   - Static — фиксированные значения (по умолчанию Defaults())
//   - Viper — defaults + YAML файл + переменные STAGEHAND_*
//
// Любая ошибка загрузки или валидации возвращается как *Error.
package config
