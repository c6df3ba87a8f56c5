// Package account serves the authentication and profile API.
//
// Router mounts, relative to its own root (the server mounts it at /api):
//
//	POST       /auth/register/
//	POST       /auth/login/              throttled per client IP
//	POST       /auth/logout/
//	GET        /auth/profile/            bearer auth
//	PUT, PATCH /auth/profile/            bearer auth, JSON or multipart
//	POST       /auth/verify-provider/    bearer auth, staff only
//	POST       /token/                   throttled per client IP
//	POST       /token/refresh/           throttled per client IP
//	POST       /token/verify/
//	POST       /token/blacklist/
//
// Bodies may be JSON, urlencoded or multipart. Errors use the handler
// package envelope; any other method on a known path answers 405.
package account
