package extract

import (
	"regexp"
	"strings"
)

// DeviceResult is the outcome of ExtractDevices. Confident=true when the
// keyword pass reached any decision (platforms, a clarification need, or an
// explicit "no devices"); Confident=false means the caller should escalate to
// the external reasoning adapter.
type DeviceResult struct {
	Confident bool
	NoDevices bool
	Platforms []string // resolved canonical platform tokens, partials merged
	Unclear   []string // ambiguous category words still needing clarification
}

// Ambiguous category words, in scan order.
const (
	CategorySmartphone = "smartphone"
	CategoryPhone      = "phone"
	CategoryLaptop     = "laptop"
	CategoryComputer   = "computer"
	CategoryTablet     = "tablet"
)

type platformPattern struct {
	platform string
	patterns []*regexp.Regexp
}

// Declaration order doubles as the canonical output order, so extraction is
// deterministic no matter how the user orders their device mentions.
var platformPatterns = []platformPattern{
	{"ios", compileAll(`\biphone\b`, `\bios\b`)},
	{"android", compileAll(`\bandroid\b`, `\bandroid phone\b`, `\bandroid tablet\b`, `\bfire\s*os\b`, `\bfire\s*tablet\b`)},
	{"ipados", compileAll(`\bipad\b`)},
	{"windows", compileAll(`\bwindows\b`, `\bpc\b`, `\bwindows laptop\b`, `\bwindows computer\b`)},
	{"macos", compileAll(`\bmac\b`, `\bmacbook\b`, `\bmac laptop\b`, `\bmac computer\b`, `\bmacos\b`)},
	{"chromeos", compileAll(`\bchromebook\b`, `\bchrome os\b`, `\bchromeos\b`)},
}

// Ambiguous category scans are typo-tolerant (users type "labtop", "fone").
// Each category only needs clarification when no specific platform of that
// category was detected in the same pass.
type categoryPattern struct {
	category  string
	re        *regexp.Regexp
	resolvers []string // platforms that settle the category
}

var categoryPatterns = []categoryPattern{
	{CategorySmartphone, regexp.MustCompile(`\bsm[ae]rtphon[ea]s?\b|\bsmart\s+phon[ea]s?\b`), []string{"ios", "android"}},
	{CategoryPhone, regexp.MustCompile(`\bphon[ea]s?\b|\bfon[ea]s?\b`), []string{"ios", "android"}},
	{CategoryLaptop, regexp.MustCompile(`\bla[bp]to[bp]s?\b`), []string{"windows", "macos", "chromeos"}},
	{CategoryComputer, regexp.MustCompile(`\bcom[pb]ut[eo]rs?\b`), []string{"windows", "macos", "chromeos"}},
	{CategoryTablet, regexp.MustCompile(`\bta[bp]l[ei]ts?\b`), []string{"android", "ipados"}},
}

var noDevicesPattern = regexp.MustCompile(`\bno devices?\b|\bdon'?t have\b.*\bdevices?\b`)

// ExtractDevices detects device platforms in the utterance, merging in
// platforms cached from a previous clarification round. Pure function: the
// caller owns all state mutation, including clearing the partial set.
func ExtractDevices(utterance string, partial []string) DeviceResult {
	message := strings.ToLower(strings.TrimSpace(utterance))

	detected := make(map[string]bool, len(partial))
	for _, p := range partial {
		detected[p] = true
	}

	for _, pp := range platformPatterns {
		for _, re := range pp.patterns {
			if re.MatchString(message) {
				detected[pp.platform] = true
				break
			}
		}
	}

	var unclear []string
	for _, cp := range categoryPatterns {
		if !cp.re.MatchString(message) {
			continue
		}
		resolved := false
		for _, p := range cp.resolvers {
			if detected[p] {
				resolved = true
				break
			}
		}
		if !resolved {
			unclear = append(unclear, cp.category)
		}
	}

	if noDevicesPattern.MatchString(message) {
		return DeviceResult{Confident: true, NoDevices: true}
	}

	platforms := canonicalOrder(detected)
	if len(platforms) > 0 || len(unclear) > 0 {
		return DeviceResult{
			Confident: true,
			Platforms: platforms,
			Unclear:   unclear,
		}
	}

	return DeviceResult{Confident: false}
}

// canonicalOrder dedupes the detected set into the platform table's
// declaration order.
func canonicalOrder(detected map[string]bool) []string {
	var out []string
	for _, pp := range platformPatterns {
		if detected[pp.platform] {
			out = append(out, pp.platform)
		}
	}
	return out
}

func compileAll(exprs ...string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, len(exprs))
	for i, expr := range exprs {
		res[i] = regexp.MustCompile(expr)
	}
	return res
}
