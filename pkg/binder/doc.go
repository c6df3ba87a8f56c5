// Package binder decodes HTTP request bodies into structs.
//
//   - JSON() decodes application/json bodies. Unknown fields are rejected
//     unless AllowUnknownFields is passed.
//   - Form() binds application/x-www-form-urlencoded and multipart/form-data,
//     using `form:"name"` tags for values and `file:"name"` tags for
//     *multipart.FileHeader fields.
//   - Negotiate picks one of them from the Content-Type header.
//
// Pointer fields stay nil when the value is absent, which lets PATCH
// handlers tell "omitted" from "set to empty":
//
//	type UpdateProfileRequest struct {
//		PhoneNumber  *string               `json:"phone_number" form:"phone_number"`
//		ProfileImage *multipart.FileHeader `json:"-" file:"profile_image"`
//	}
//
//	bind := binder.Negotiate(binder.JSON(binder.AllowUnknownFields()), binder.Form())
package binder
