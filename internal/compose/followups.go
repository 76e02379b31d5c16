package compose

import "rosterlens.app/engine/internal/model"

// followupsByIntent suggests questions a user is likely to ask next. Every
// suggestion is itself resolvable by the rule stage.
var followupsByIntent = map[model.Intent][]string{
	model.IntentCountExpiredLicenses: {
		"Which licenses expire in the next 90 days?",
		"Which specialties have the most issues?",
		"Export the list of providers requiring updates.",
	},
	model.IntentOverallScore: {
		"Show me quality issues by specialty.",
		"How do issues break down by state?",
		"How many duplicate records do we have?",
	},
	model.IntentQualityBySpecialty: {
		"How do issues break down by state?",
		"What's our overall data quality score?",
		"Export the list of providers requiring updates.",
	},
	model.IntentPhoneIssues: {
		"Export the list of providers requiring updates.",
		"How do issues break down by state?",
		"What's our overall data quality score?",
	},
	model.IntentMissingNPI: {
		"Which specialties have the most issues?",
		"Export the list of providers requiring updates.",
		"What's our overall data quality score?",
	},
	model.IntentDuplicateSummary: {
		"Export the list of providers requiring updates.",
		"Which specialties have the most issues?",
		"What's our overall data quality score?",
	},
	model.IntentStateBreakdown: {
		"Show me quality issues by specialty.",
		"Are any providers practicing in multiple states?",
		"What's our overall data quality score?",
	},
	model.IntentExpiringSoon: {
		"How many providers have expired licenses?",
		"Export the list of providers requiring updates.",
		"What's our overall data quality score?",
	},
	model.IntentMultiStateLicense: {
		"How do issues break down by state?",
		"How many providers have expired licenses?",
		"Export the list of providers requiring updates.",
	},
	model.IntentProviderSearch: {
		"Show me phone formatting issues.",
		"Which providers are missing an NPI?",
		"How many duplicate records do we have?",
	},
	model.IntentUpdateList: {
		"What's our overall data quality score?",
		"Show me quality issues by specialty.",
		"How many providers have expired licenses?",
	},
}

// Followups returns suggested next questions for an answered intent.
// Unrecognized intents get the general starter questions.
func Followups(intent model.Intent) []string {
	if s, ok := followupsByIntent[intent]; ok {
		return append([]string(nil), s...)
	}
	return append([]string(nil), exampleQueries[:3]...)
}
