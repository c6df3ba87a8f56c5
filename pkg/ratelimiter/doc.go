// Package ratelimiter implements token-bucket throttling with pluggable
// storage and an HTTP middleware.
//
// A Bucket holds Capacity tokens and regains RefillRate tokens every
// RefillInterval. Each request takes one token; a request that finds the
// bucket empty is denied without draining it further.
//
//	store := ratelimiter.NewMemoryStore()          // or NewRedisStore(client)
//	limiter, _ := ratelimiter.NewBucket(store, ratelimiter.PerMinute(5))
//	r.With(ratelimiter.Middleware(limiter, ratelimiter.ByClientIP("login"))).Post(...)
package ratelimiter
