package voice

import "strings"

type keywordRule struct {
	keyword string
	route   Route
}

// fallbackKeywords is the local table used when remote resolution is
// unavailable. Order matters: the first matching keyword wins.
var fallbackKeywords = []keywordRule{
	{"home", RouteHome},
	{"about", RouteAbout},
	{"service", RouteServices},
	{"contact", RouteContact},
}

// MatchKeyword finds the first fallback keyword contained in transcript.
func MatchKeyword(transcript string) (Route, bool) {
	lower := strings.ToLower(transcript)
	for _, rule := range fallbackKeywords {
		if strings.Contains(lower, rule.keyword) {
			return rule.route, true
		}
	}
	return "", false
}

// Classifier is the richer phrase matcher behind the command resolution
// endpoint. It recognises synonyms the local fallback table does not.
type Classifier struct {
	patterns []routePatterns
}

type routePatterns struct {
	route    Route
	patterns []string
}

// NewClassifier creates a classifier with the default phrase lists.
func NewClassifier() *Classifier {
	return &Classifier{
		patterns: []routePatterns{
			{RouteHome, []string{"home", "homepage", "main page", "start page", "landing", "beginning"}},
			{RouteAbout, []string{"about", "who are you", "who we are", "your story", "company info", "team"}},
			{RouteServices, []string{"service", "what do you offer", "what you offer", "offerings", "pricing", "products"}},
			{RouteContact, []string{"contact", "get in touch", "reach you", "email", "phone", "call you", "support"}},
		},
	}
}

// Classify returns the route whose phrase list matches transcript first.
func (c *Classifier) Classify(transcript string) (Route, bool) {
	lower := strings.ToLower(strings.TrimSpace(transcript))
	if lower == "" {
		return "", false
	}
	for _, rp := range c.patterns {
		for _, p := range rp.patterns {
			if strings.Contains(lower, p) {
				return rp.route, true
			}
		}
	}
	return "", false
}
