// Package auth owns marketplace accounts: email/password credential
// verification, lookup by ID, registration, profile updates and staff
// verification of moving service providers.
//
// Storage is injected through the Storage interface. MemoryStorage backs
// tests and local runs; internal/store/postgres backs production.
//
// Authenticate performs exactly one password hashing operation on every
// path that reaches storage. Unknown emails hash the supplied password
// for a throwaway account so their latency matches a wrong password for
// a registered one.
package auth
