package validate

import (
	"fmt"
	"strings"
	"time"

	"rosterlens.app/engine/internal/model"
)

// PhoneValidator flags phone numbers whose digit string does not match
// the accepted US formats: ten digits, or eleven with a leading country
// code of 1. Separators and punctuation are stripped before checking.
type PhoneValidator struct{}

func (PhoneValidator) Name() string { return "phone" }

func (PhoneValidator) Check(rec model.ProviderRecord, _ time.Time) []model.Issue {
	raw := strings.TrimSpace(rec.Phone)
	if raw == "" {
		return []model.Issue{
			model.NewIssue(rec.ProviderID, model.CategoryPhoneFormat, "no phone number on file"),
		}
	}

	digits := DigitsOnly(raw)
	if len(digits) == 10 {
		return nil
	}
	if len(digits) == 11 && digits[0] == '1' {
		return nil
	}

	return []model.Issue{
		model.NewIssue(rec.ProviderID, model.CategoryPhoneFormat,
			fmt.Sprintf("phone %q does not normalize to a 10-digit US number", raw)),
	}
}

// DigitsOnly strips everything but digits from a phone string.
func DigitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
