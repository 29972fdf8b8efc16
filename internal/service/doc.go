// Package service contains the application use cases: user registration and
// login, vocabulary and conjugation management, game sessions and progress
// statistics.
//
// Services receive their stores, a store.Transactor and the scoring engine
// through constructor injection and never depend on a concrete database.
// Operations that touch more than one table run inside a single transaction
// obtained from the Transactor, with each store bound to it via WithTx.
//
// Expected conditions are returned as sentinels from the domain and store
// packages (validation, not found, duplicate, data integrity) so the API
// layer can map them to status codes with errors.Is. Anything unexpected is
// wrapped in a ServiceError naming the failed operation.
package service
