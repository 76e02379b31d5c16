package validate

import (
	"fmt"
	"strings"
	"time"

	"rosterlens.app/engine/internal/model"
)

// LicenseValidator flags providers whose license is missing or expired
// relative to the evaluation time. An unparsable expiration date is
// treated as missing and flagged, never raised.
type LicenseValidator struct{}

func (LicenseValidator) Name() string { return "license" }

func (LicenseValidator) Check(rec model.ProviderRecord, now time.Time) []model.Issue {
	if strings.TrimSpace(rec.LicenseNumber) == "" {
		return []model.Issue{
			model.NewIssue(rec.ProviderID, model.CategoryLicenseMissing, "no license number on file"),
		}
	}

	raw := strings.TrimSpace(rec.LicenseExpiry)
	if raw == "" {
		return []model.Issue{
			model.NewIssue(rec.ProviderID, model.CategoryLicenseMissing, "no license expiration date on file"),
		}
	}

	expiry, ok := ParseDate(raw)
	if !ok {
		return []model.Issue{
			model.NewIssue(rec.ProviderID, model.CategoryLicenseMissing,
				fmt.Sprintf("unparsable license expiration date %q, treated as missing", raw)),
		}
	}

	if expiry.Before(now) {
		return []model.Issue{
			model.NewIssue(rec.ProviderID, model.CategoryLicenseExpired,
				fmt.Sprintf("license %s expired on %s", rec.LicenseNumber, expiry.Format("2006-01-02"))),
		}
	}

	return nil
}
