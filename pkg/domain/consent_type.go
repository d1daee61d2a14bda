package domain

import dErrors "datagov/pkg/domain-errors"

// ConsentType labels what a user consented to. The ledger stores the raw
// value write-once; the allowlist is enforced at the HTTP boundary so replayed
// historical entries with retired types still load.
type ConsentType string

const (
	ConsentTypeTerms          ConsentType = "terms_of_service"
	ConsentTypePrivacy        ConsentType = "privacy_policy"
	ConsentTypeMarketing      ConsentType = "marketing"
	ConsentTypeDataProcessing ConsentType = "data_processing"
)

var validConsentTypes = map[ConsentType]bool{
	ConsentTypeTerms:          true,
	ConsentTypePrivacy:        true,
	ConsentTypeMarketing:      true,
	ConsentTypeDataProcessing: true,
}

// ParseConsentType constructs a ConsentType from external input.
func ParseConsentType(s string) (ConsentType, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "consent type cannot be empty")
	}
	c := ConsentType(s)
	if !c.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "unsupported consent type: "+s)
	}
	return c, nil
}

// IsValid checks the consent type against the supported set.
func (c ConsentType) IsValid() bool {
	return validConsentTypes[c]
}

func (c ConsentType) String() string {
	return string(c)
}
