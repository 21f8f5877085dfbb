package objectstore

import "errors"

// ErrInvalidConfig — неполные параметры подключения к хранилищу.
var ErrInvalidConfig = errors.New("objectstore: invalid config")
