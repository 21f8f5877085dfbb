// Package repo — доступ к PostgreSQL.
//
//   - db.go          — пул соединений pgx (используется бэкендом БД "postgres")
//   - result_repo.go — таблица результатов (используется sink "postgres")
package repo
