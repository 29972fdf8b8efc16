// Package domain contains the core business entities of the vocabulary
// trainer: users, words, conjugations, their tracking records and the
// game runs that update them. It has no knowledge of storage or transport.
package domain
