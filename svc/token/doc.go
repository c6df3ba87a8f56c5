// Package token issues and validates the HS256 access/refresh pairs used
// by the API.
//
// Refresh tokens rotate: a successful Refresh blacklists the presented
// token's jti until its expiry and returns a new pair. Blacklist entries
// live in a Blacklist, either MemoryBlacklist for a single instance or
// RedisBlacklist when several instances share state.
//
// Middleware authenticates requests carrying "Authorization: Bearer <access>"
// and re-resolves the token subject to a live account on every request.
package token
