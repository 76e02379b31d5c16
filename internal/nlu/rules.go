package nlu

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"rosterlens.app/engine/internal/model"
)

const (
	ruleConfidence    = 0.9
	defaultWindowDays = 90
)

type rule struct {
	intent   model.Intent
	patterns []*regexp.Regexp
}

var rules = []rule{
	{model.IntentCountExpiredLicenses, compileAll(
		`(?i)\bhow many\b.*\bexpired license`,
		`(?i)\bexpired licenses\b.*\bcount\b`,
		`(?i)\bcompliance report\b.*\bexpired\b`,
	)},
	{model.IntentPhoneIssues, compileAll(
		`(?i)\bphone\b.*(format|invalid|issue|problem)`,
	)},
	{model.IntentMissingNPI, compileAll(
		`(?i)\bmissing\b.*\bnpi\b`,
		`(?i)\bwhich\b.*\bnpi\b.*\bmissing\b`,
	)},
	{model.IntentDuplicateSummary, compileAll(
		`(?i)\bduplicate\b.*(record|provider)`,
		`(?i)\bpotential duplicate`,
	)},
	{model.IntentOverallScore, compileAll(
		`(?i)\boverall\b.*\bquality score\b`,
		`(?i)\bdata quality score\b`,
	)},
	{model.IntentQualityBySpecialty, compileAll(
		`(?i)\bspecialt(y|ies)\b.*\bmost\b.*(issue|problem)`,
		`(?i)\b(issue|problem)s?\b.*\bby specialt(y|ies)\b`,
		`(?i)\bquality\b.*\bby specialt(y|ies)\b`,
	)},
	{model.IntentStateBreakdown, compileAll(
		`(?i)\bsummary\b.*\b(state|by state)\b`,
		`(?i)\b(issue|problem)s?\b.*\bby state\b`,
	)},
	{model.IntentExpiringSoon, compileAll(
		`(?i)\bfilter\b.*\bexpiration\b.*\b\d+\s*days\b`,
		`(?i)\bexpire(s|d)?\b.*\bnext\b.*\b\d+\b\s*days`,
		`(?i)\bexpiring\b.*\bsoon\b`,
	)},
	{model.IntentMultiStateLicense, compileAll(
		`(?i)\bmultiple states\b.*single license\b`,
		`(?i)\bpracticing\b.*\bmultiple states\b`,
		`(?i)\bsingle license\b.*\bmultiple states\b`,
	)},
	{model.IntentUpdateList, compileAll(
		`(?i)\bexport\b.*(update|credential)`,
		`(?i)\bproviders?\b.*\brequiring\b.*\b(update|credential)`,
		`(?i)\bcredential\b.*\bupdate`,
	)},
	{model.IntentProviderSearch, compileAll(
		`(?i)\bfind\b.*\bprovider\b.*\bnamed?\b.*\b[a-zA-Z]+\s+[a-zA-Z]+`,
		`(?i)\bsearch\b.*\bfor\b.*\b[a-zA-Z]+\s+[a-zA-Z]+`,
		`(?i)\blook\s+for\b.*\b[a-zA-Z]+\s+[a-zA-Z]+`,
		`(?i)\bdo\s+we\s+have\b.*\b[a-zA-Z]+\s+[a-zA-Z]+`,
		`(?i)\b[a-zA-Z]+\s+[a-zA-Z]+\b.*\bin\s+(the\s+)?(dataset|data|roster)\b`,
	)},
}

func compileAll(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile(e)
	}
	return out
}

// RuleStage matches queries against keyword patterns in a fixed priority
// order. Same query text, same resolution, every time.
type RuleStage struct{}

func NewRuleStage() RuleStage { return RuleStage{} }

func (RuleStage) Name() string { return "rule" }

func (RuleStage) Resolve(_ context.Context, query string) (Resolution, bool, error) {
	for _, r := range rules {
		for _, p := range r.patterns {
			if p.MatchString(query) {
				return Resolution{
					Intent:     r.intent,
					Confidence: ruleConfidence,
					Method:     model.MethodRule,
					Params:     ExtractParams(r.intent, query),
				}, true, nil
			}
		}
	}
	return Resolution{}, false, nil
}

var (
	daysPattern    = regexp.MustCompile(`(?i)(\d+)\s*days`)
	titleCasedPair = regexp.MustCompile(`\b([A-Z][a-z]+\s+[A-Z][a-z]+)\b`)
	namePatterns   = compileAll(
		`(?i)\bfind\b.*\bprovider\b.*\bnamed?\b\s+([a-zA-Z]+\s+[a-zA-Z]+)`,
		`(?i)\bsearch\b.*\bfor\b\s+([a-zA-Z]+\s+[a-zA-Z]+)`,
		`(?i)\blook\s+for\b\s+([a-zA-Z]+\s+[a-zA-Z]+)`,
		`(?i)\bdo\s+we\s+have\b.*?\b([a-zA-Z]+\s+[a-zA-Z]+)\b`,
		`(?i)\b([a-zA-Z]+\s+[a-zA-Z]+)\b\s+in\s+(?:the\s+)?(?:dataset|data|roster)`,
	)
)

// ExtractParams pulls intent-specific parameters out of the query text.
// Missing parameters fall back to the intent's default.
func ExtractParams(intent model.Intent, query string) model.QueryParams {
	switch intent {
	case model.IntentExpiringSoon:
		if m := daysPattern.FindStringSubmatch(query); m != nil {
			if days, err := strconv.Atoi(m[1]); err == nil && days > 0 {
				return model.QueryParams{WindowDays: days}
			}
		}
		return model.QueryParams{WindowDays: defaultWindowDays}
	case model.IntentProviderSearch:
		for _, p := range namePatterns {
			if m := p.FindStringSubmatch(query); m != nil {
				return model.QueryParams{ProviderName: strings.TrimSpace(m[1])}
			}
		}
		if m := titleCasedPair.FindStringSubmatch(query); m != nil {
			return model.QueryParams{ProviderName: m[1]}
		}
	}
	return model.QueryParams{}
}
