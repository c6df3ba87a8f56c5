// Package handler adapts typed request handlers to net/http.
//
// A HandlerFunc receives a Context and a decoded request value and returns a
// Response. Wrap binds the request, runs decorators, and routes any failure
// through an ErrorHandler that renders the JSON error envelope:
//
//	{"error": {"code": "validation_error", "message": "...", "details": {"email": ["..."]}}}
//
// Successful responses are rendered as the bare resource by JSON.
//
//	login := handler.HandlerFunc[handler.Context, LoginRequest](
//		func(ctx handler.Context, req LoginRequest) handler.Response {
//			pair, err := svc.Login(ctx, req.Email, req.Password)
//			if err != nil {
//				return handler.Error(err)
//			}
//			return handler.JSON(pair)
//		},
//	)
//	r.Post("/login/", handler.Wrap(login, handler.WithBinder[handler.Context, LoginRequest](binder.JSON())))
package handler
