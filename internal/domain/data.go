package domain

// ProcessedData — результат этапа produce.
//
// Создаётся pipeline'ом, сразу передаётся в persist и дальше не хранится.
type ProcessedData struct {
	Result string `json:"result"`
}
