package extract

import (
	"regexp"
	"strings"
)

// WhoAction is the closed set of outcomes for "who is this for" extraction.
type WhoAction string

const (
	WhoForSelf      WhoAction = "for_self"
	WhoRelationship WhoAction = "extract_relationship"
	WhoSomeoneElse  WhoAction = "ask_who"
)

// WhoResult is the outcome of ExtractWho. Confident=false means no pattern
// matched and the caller should re-ask; this intent never escalates to the
// language model.
type WhoResult struct {
	Confident    bool
	Action       WhoAction
	TargetPerson string
	Relationship string
}

// Pattern lists are ordered; the first match wins. Self-reference outranks
// relationship mentions, which outrank generic someone-else phrasing.
var selfPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(me|myself|for me|for myself|it'?s for me)\b`),
	regexp.MustCompile(`\bi am\b`),
	regexp.MustCompile(`\bi'?m\b`),
	regexp.MustCompile(`\bthis is for me\b`),
}

type relationshipPattern struct {
	re           *regexp.Regexp
	relationship string
}

var relationshipPatterns = []relationshipPattern{
	{regexp.MustCompile(`\b(my|for my)\s+(mom|mother|mama)\b`), "mother"},
	{regexp.MustCompile(`\b(my|for my)\s+(dad|father|papa|pop)\b`), "father"},
	{regexp.MustCompile(`\b(my|for my)\s+(son|boy)\b`), "son"},
	{regexp.MustCompile(`\b(my|for my)\s+(daughter|girl)\b`), "daughter"},
	{regexp.MustCompile(`\b(my|for my)\s+(wife)\b`), "wife"},
	{regexp.MustCompile(`\b(my|for my)\s+(husband|spouse)\b`), "husband"},
	{regexp.MustCompile(`\b(my|for my)\s+(brother|bro)\b`), "brother"},
	{regexp.MustCompile(`\b(my|for my)\s+(sister|sis)\b`), "sister"},
	{regexp.MustCompile(`\b(my|for my)\s+(friend|buddy|pal)\b`), "friend"},
	{regexp.MustCompile(`\b(my|for my)\s+(colleague|coworker)\b`), "colleague"},
	{regexp.MustCompile(`\b(my|for my)\s+(child|kid)\b`), "child"},
	{regexp.MustCompile(`\b(my|for my)\s+(parent|parents)\b`), "parent"},
	{regexp.MustCompile(`\b(my|for my)\s+(grandma|grandmother)\b`), "grandmother"},
	{regexp.MustCompile(`\b(my|for my)\s+(grandpa|grandfather)\b`), "grandfather"},
	{regexp.MustCompile(`\b(my|for my)\s+(uncle)\b`), "uncle"},
	{regexp.MustCompile(`\b(my|for my)\s+(aunt)\b`), "aunt"},
	{regexp.MustCompile(`\b(my|for my)\s+(cousin)\b`), "cousin"},
	{regexp.MustCompile(`\b(my|for my)\s+(student)\b`), "student"},
}

var someoneElsePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bsomeone else\b`),
	regexp.MustCompile(`\banother person\b`),
	regexp.MustCompile(`\bnot for me\b`),
	regexp.MustCompile(`\bfor someone\b`),
	regexp.MustCompile(`\bother person\b`),
	regexp.MustCompile(`\bsomeone\b`),
	regexp.MustCompile(`\bfor a friend\b`),
	regexp.MustCompile(`\bfor my friend\b`),
	regexp.MustCompile(`\bfor a family member\b`),
	regexp.MustCompile(`\bfor someone i know\b`),
	regexp.MustCompile(`\bfor a colleague\b`),
}

// An explicit negation must win before the self scan sees "me".
var notForSelfPattern = regexp.MustCompile(`\bnot for me\b|\bnot me\b`)

// ExtractWho detects who the tools are being searched for. Pure function of
// the utterance; no state is touched.
func ExtractWho(utterance string) WhoResult {
	message := strings.ToLower(strings.TrimSpace(utterance))

	if notForSelfPattern.MatchString(message) {
		return WhoResult{
			Confident: true,
			Action:    WhoSomeoneElse,
		}
	}

	for _, re := range selfPatterns {
		if re.MatchString(message) {
			return WhoResult{
				Confident:    true,
				Action:       WhoForSelf,
				TargetPerson: "you",
			}
		}
	}

	for _, p := range relationshipPatterns {
		if p.re.MatchString(message) {
			return WhoResult{
				Confident:    true,
				Action:       WhoRelationship,
				TargetPerson: "your " + p.relationship,
				Relationship: p.relationship,
			}
		}
	}

	for _, re := range someoneElsePatterns {
		if re.MatchString(message) {
			return WhoResult{
				Confident: true,
				Action:    WhoSomeoneElse,
			}
		}
	}

	return WhoResult{Confident: false}
}
