// Package jwt signs and validates HS256 JSON Web Tokens on top of
// github.com/golang-jwt/jwt/v5 and provides bearer-token HTTP middleware.
//
// Claims are caller-defined structs that embed jwt.RegisteredClaims:
//
//	type Claims struct {
//		jwt.RegisteredClaims
//		UserID string `json:"user_id"`
//	}
//
//	svc, _ := jwt.NewFromString(secret)
//	token, _ := svc.Generate(&Claims{...})
//
//	var c Claims
//	err := svc.Parse(token, &c) // ErrExpiredToken, ErrInvalidSignature, ErrInvalidToken
//
// Middleware extracts the token (Bearer header by default), parses it into
// a fresh claims value and stores both in the request context for
// GetToken and GetClaims.
package jwt
