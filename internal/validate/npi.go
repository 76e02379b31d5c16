package validate

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"rosterlens.app/engine/internal/model"
)

// npiLength is the fixed digit length of a National Provider Identifier.
const npiLength = 10

// NPIValidator flags missing NPIs and NPIs that fail the format check:
// ten digits with a valid Luhn check digit computed over the 80840
// issuer prefix.
type NPIValidator struct{}

func (NPIValidator) Name() string { return "npi" }

func (NPIValidator) Check(rec model.ProviderRecord, _ time.Time) []model.Issue {
	npi := strings.TrimSpace(rec.NPI)
	if npi == "" {
		return []model.Issue{
			model.NewIssue(rec.ProviderID, model.CategoryNPIMissing, "no NPI on file"),
		}
	}

	if len(npi) != npiLength || !allDigits(npi) {
		return []model.Issue{
			model.NewIssue(rec.ProviderID, model.CategoryNPIInvalid,
				fmt.Sprintf("NPI %q is not a %d-digit number", npi, npiLength)),
		}
	}

	if !validNPIChecksum(npi) {
		return []model.Issue{
			model.NewIssue(rec.ProviderID, model.CategoryNPIInvalid,
				fmt.Sprintf("NPI %s fails the check-digit rule", npi)),
		}
	}

	return nil
}

func allDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// validNPIChecksum applies the Luhn algorithm over the first nine digits
// with the constant 24 standing in for the 80840 prefix, and compares the
// result against the tenth digit.
func validNPIChecksum(npi string) bool {
	sum := 24
	double := true
	for i := npiLength - 2; i >= 0; i-- {
		d := int(npi[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	check := (10 - sum%10) % 10
	return check == int(npi[npiLength-1]-'0')
}
