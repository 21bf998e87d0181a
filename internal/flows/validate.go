package flows

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Input whitelisting patterns. Everything an account holder types passes one
// of these before it reaches a store or a cipher.
var (
	namePattern          = regexp.MustCompile(`^[a-zA-Z\s]{2,50}$`)
	idNumberPattern      = regexp.MustCompile(`^[0-9]{13}$`)
	accountNumberPattern = regexp.MustCompile(`^[0-9]{10,16}$`)
	swiftPattern         = regexp.MustCompile(`^[A-Z]{6}[A-Z0-9]{2}([A-Z0-9]{3})?$`)
	nonDigits            = regexp.MustCompile(`[^0-9]`)
)

// localBanks is the closed set of banks accepted for domestic transfers.
var localBanks = map[string]bool{
	"Absa":           true,
	"FNB":            true,
	"Standard Bank":  true,
	"Nedbank":        true,
	"Capitec Bank":   true,
	"Investec":       true,
	"Discovery Bank": true,
	"African Bank":   true,
	"Bidvest Bank":   true,
	"TymeBank":       true,
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	mustRegister(v, "person_name", namePattern)
	mustRegister(v, "id_number", idNumberPattern)
	mustRegister(v, "acct_number", accountNumberPattern)
	mustRegister(v, "swift", swiftPattern)
	_ = v.RegisterValidation("local_bank", func(fl validator.FieldLevel) bool {
		return localBanks[fl.Field().String()]
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, pattern *regexp.Regexp) {
	_ = v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return pattern.MatchString(fl.Field().String())
	})
}

// checkInput runs struct-tag validation; any failure is an input rejection,
// never a server fault.
func checkInput(in any) error {
	return validate.Struct(in)
}

// passwordPolicyOK enforces the composition policy: minimum length plus at
// least one lowercase letter, one uppercase letter, one digit, and one
// special character from the fixed set @$!%*?&.
func passwordPolicyOK(password string, minLen int) bool {
	if len(password) < minLen {
		return false
	}
	var lower, upper, digit, special bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune("@$!%*?&", r):
			special = true
		}
	}
	return lower && upper && digit && special
}

// digitsOnly normalizes numeric identifiers typed with separators.
func digitsOnly(s string) string {
	return nonDigits.ReplaceAllString(strings.TrimSpace(s), "")
}

// normalizeEmail lowers and trims an email address for comparison.
func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
