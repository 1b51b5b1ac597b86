package validation

import (
	"unicode"

	"github.com/accounthub/user-service/internal/core/domain"
)

// passwordRule is a single entry of the ordered password policy.
type passwordRule struct {
	ok     func(string) bool
	reason string
}

// passwordRules is evaluated top to bottom; only the first violation is
// reported. The wording of each reason, including "greater then", is part
// of the published API contract and must not be corrected.
var passwordRules = []passwordRule{
	{containsClass(isSpecial), "should contain special characters"},
	{containsClass(unicode.IsNumber), "should contain numbers"},
	{longEnough, "length should be greater then 5"},
}

// isSpecial treats any unicode punctuation or symbol as a special character.
func isSpecial(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSymbol(r)
}

func longEnough(s string) bool {
	return len(s) > 5
}

func containsClass(is func(rune) bool) func(string) bool {
	return func(s string) bool {
		for _, r := range s {
			if is(r) {
				return true
			}
		}
		return false
	}
}

// Password returns a *domain.ValidationError for the first violated policy
// rule, or nil when the password satisfies the whole policy.
func Password(password string) error {
	for _, rule := range passwordRules {
		if !rule.ok(password) {
			return &domain.ValidationError{Field: "password", Reason: rule.reason}
		}
	}
	return nil
}
