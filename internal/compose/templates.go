package compose

import (
	"fmt"
	"strings"

	"rosterlens.app/engine/internal/model"
)

// exampleQueries are shown when a query cannot be classified.
var exampleQueries = []string{
	"How many providers have expired licenses?",
	"What's our overall data quality score?",
	"Show me quality issues by specialty.",
	"Show me phone formatting issues.",
	"Which providers are missing an NPI?",
	"Which licenses expire in the next 90 days?",
}

// RenderTemplate produces the deterministic answer for a result. It
// succeeds for every intent, including unknown.
func RenderTemplate(res Result) string {
	switch res.Intent {
	case model.IntentCountExpiredLicenses:
		if res.Count == 0 {
			return "No providers have an expired license."
		}
		return fmt.Sprintf("%d provider%s %s an expired license.%s",
			res.Count, plural(res.Count), havePlural(res.Count), providerList(res.Providers))

	case model.IntentOverallScore:
		if res.Count == 0 {
			return "No roster is loaded yet, so there is no quality score to report."
		}
		return fmt.Sprintf("The overall data quality score is %.1f out of 100 across %d providers.",
			res.Score, res.Count)

	case model.IntentQualityBySpecialty:
		if len(res.Breakdown) == 0 {
			return "No data quality issues were found in any specialty."
		}
		return "Data quality issues by specialty (worst first):" + breakdownList(res.Breakdown)

	case model.IntentPhoneIssues:
		if res.Count == 0 {
			return "No providers have phone number formatting issues."
		}
		return fmt.Sprintf("%d provider%s %s phone number formatting issues.%s",
			res.Count, plural(res.Count), havePlural(res.Count), providerList(res.Providers))

	case model.IntentMissingNPI:
		if res.Count == 0 {
			return "Every provider on the roster has an NPI on file."
		}
		return fmt.Sprintf("%d provider%s %s missing an NPI.%s",
			res.Count, plural(res.Count), isPlural(res.Count), providerList(res.Providers))

	case model.IntentDuplicateSummary:
		if res.Count == 0 {
			return "No duplicate provider records were detected."
		}
		return fmt.Sprintf("%d record%s look%s like duplicates of another roster entry.%s",
			res.Count, plural(res.Count), verbPlural(res.Count), providerList(res.Providers))

	case model.IntentStateBreakdown:
		if len(res.Breakdown) == 0 {
			return "No data quality issues were found in any state."
		}
		return "Data quality issues by state (worst first):" + breakdownList(res.Breakdown)

	case model.IntentExpiringSoon:
		if res.Count == 0 {
			return fmt.Sprintf("No licenses expire in the next %d days.", res.WindowDays)
		}
		return fmt.Sprintf("%d license%s expire%s in the next %d days.%s",
			res.Count, plural(res.Count), verbPlural(res.Count), res.WindowDays, providerList(res.Providers))

	case model.IntentMultiStateLicense:
		if res.Count == 0 {
			return "No providers are practicing outside the state their license covers."
		}
		return fmt.Sprintf("%d provider%s %s practicing in a state not covered by their license.%s",
			res.Count, plural(res.Count), isPlural(res.Count), providerList(res.Providers))

	case model.IntentProviderSearch:
		if res.SearchName == "" {
			return "I couldn't tell which provider name to search for. Try something like \"find a provider named Jane Smith\"."
		}
		if res.Count == 0 {
			return fmt.Sprintf("No providers matching %q were found on the roster.", res.SearchName)
		}
		return fmt.Sprintf("%d provider%s match%s %q.%s",
			res.Count, plural(res.Count), matchPlural(res.Count), res.SearchName, providerList(res.Providers))

	case model.IntentUpdateList:
		if res.Count == 0 {
			return "No providers currently need credential updates."
		}
		return fmt.Sprintf("%d provider%s need%s credential updates.%s",
			res.Count, plural(res.Count), verbPlural(res.Count), providerList(res.Providers))
	}

	var b strings.Builder
	b.WriteString("I'm not sure what you're asking about the roster. Here are some questions I can answer:")
	for _, q := range exampleQueries {
		b.WriteString("\n- ")
		b.WriteString(q)
	}
	return b.String()
}

func providerList(provs []ProviderBrief) string {
	if len(provs) == 0 {
		return ""
	}
	var b strings.Builder
	for _, p := range provs {
		b.WriteString("\n- ")
		b.WriteString(p.FullName)
		if p.Specialty != "" {
			b.WriteString(" (")
			b.WriteString(p.Specialty)
			b.WriteString(")")
		}
		if p.Detail != "" {
			b.WriteString(": ")
			b.WriteString(p.Detail)
		}
	}
	return b.String()
}

func breakdownList(rows []BreakdownRow) string {
	var b strings.Builder
	for _, r := range rows {
		fmt.Fprintf(&b, "\n- %s: %d issue%s", r.Key, r.Count, plural(r.Count))
	}
	return b.String()
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

func havePlural(n int) string {
	if n == 1 {
		return "has"
	}
	return "have"
}

func isPlural(n int) string {
	if n == 1 {
		return "is"
	}
	return "are"
}

func verbPlural(n int) string {
	if n == 1 {
		return "s"
	}
	return ""
}

func matchPlural(n int) string {
	if n == 1 {
		return "es"
	}
	return ""
}
