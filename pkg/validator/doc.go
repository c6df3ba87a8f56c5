// Package validator provides small declarative validation rules.
//
// Each rule pairs a Check func with a field-scoped ValidationError. Apply runs
// a list of rules and returns every failure as ValidationErrors, which
// implements error and groups cleanly into per-field messages:
//
//	err := validator.Apply(
//	    validator.RequiredString("email", req.Email),
//	    validator.ValidEmail("email", req.Email),
//	    validator.StrongPassword("password", req.Password, validator.DefaultPasswordStrength()),
//	)
//	if verrs := validator.ExtractValidationErrors(err); verrs != nil {
//	    details := verrs.Map()
//	}
//
// Rules are stateless and safe for concurrent use.
package validator
