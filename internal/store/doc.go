// Package store defines the persistence interfaces used by the services.
//
// Every method that reads or writes user content takes the owner's user ID
// as an explicit parameter, and implementations must scope every query by
// it. There is no way to address another user's rows through this package.
package store
