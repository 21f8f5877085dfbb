// Package pipeline выполняет обработку данных run: получить результат
// и сохранить его.
//
// Pipeline состоит из Producer и Sink:
//
//	Producer: StaticProducer, опционально обёрнутый CachedProducer
//	Sink:     log (default), postgres, amqp, s3
//
// Sink выбирается по pipeline.sink через Registry. Любая ошибка
// сохранения возвращается как *PersistError.
package pipeline
