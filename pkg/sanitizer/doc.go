// Package sanitizer normalizes user input before it is validated or stored.
//
// Functions are plain string transforms and can be chained with Apply or
// Compose:
//
//	name := sanitizer.Apply(req.UniversityName, sanitizer.RemoveControlChars, sanitizer.SingleLine)
package sanitizer
