// Package validation holds the codec-specific option rules of encoders with
// their own parameter spaces, grouped by encoder family.
package validation

import "slices"

// EncoderValidator supplies rule sets for a family of encoders.
type EncoderValidator interface {
	// CanValidate returns true if this validator has rules for encoderName.
	CanValidate(encoderName string) bool

	// GetEncoderNames returns the encoder names this validator handles.
	GetEncoderNames() []string

	// GetDescription returns a human-readable description of this validator.
	GetDescription() string

	// Rules returns the ordered rule set of encoderName.
	Rules(encoderName string) (RuleSet, bool)
}

// ValidatorRegistry holds all registered validators.
type ValidatorRegistry struct {
	validators []EncoderValidator
}

// NewValidatorRegistry creates an empty validator registry.
func NewValidatorRegistry() *ValidatorRegistry {
	return &ValidatorRegistry{
		validators: make([]EncoderValidator, 0),
	}
}

// DefaultRegistry returns a registry holding every built-in validator.
func DefaultRegistry() *ValidatorRegistry {
	r := NewValidatorRegistry()
	r.Register(NewNvencValidator())
	r.Register(NewGenericValidator())
	return r
}

// Register adds a validator to the registry.
func (r *ValidatorRegistry) Register(validator EncoderValidator) {
	r.validators = append(r.validators, validator)
}

// FindValidator finds the validator for encoderName, or nil.
func (r *ValidatorRegistry) FindValidator(encoderName string) EncoderValidator {
	for _, validator := range r.validators {
		if validator.CanValidate(encoderName) {
			return validator
		}
	}
	return nil
}

// Rules returns the rule set for encoderName from the first validator that
// handles it.
func (r *ValidatorRegistry) Rules(encoderName string) (RuleSet, bool) {
	v := r.FindValidator(encoderName)
	if v == nil {
		return RuleSet{}, false
	}
	return v.Rules(encoderName)
}

// GetAllValidators returns every registered validator.
func (r *ValidatorRegistry) GetAllValidators() []EncoderValidator {
	return slices.Clone(r.validators)
}
