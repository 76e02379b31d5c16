package validate

import (
	"fmt"
	"strings"
	"time"

	"rosterlens.app/engine/internal/model"
)

// StateValidator flags records whose license state differs from the
// practice state. A secondary license covering the practice state
// reconciles the mismatch.
type StateValidator struct{}

func (StateValidator) Name() string { return "state" }

func (StateValidator) Check(rec model.ProviderRecord, _ time.Time) []model.Issue {
	practice := strings.ToUpper(strings.TrimSpace(rec.State))
	licensed := strings.ToUpper(strings.TrimSpace(rec.LicenseState))
	if practice == "" || licensed == "" || practice == licensed {
		return nil
	}
	for _, extra := range rec.ExtraLicenseStates {
		if strings.ToUpper(strings.TrimSpace(extra)) == practice {
			return nil
		}
	}
	return []model.Issue{model.NewIssue(rec.ProviderID, model.CategoryStateMismatch,
		fmt.Sprintf("licensed in %s but practicing in %s", licensed, practice))}
}
