package domain

import "strings"

// Classifier assigns a PriorityTier from a raw street name. Pure and total:
// any string input yields a tier.
type Classifier struct {
	avoid []string
	prime []string
}

// NewClassifier creates a Classifier over the given pattern lists.
func NewClassifier(rules Rules) *Classifier {
	return &Classifier{avoid: rules.AvoidPatterns, prime: rules.PrimePatterns}
}

// Classify returns the tier for a raw street name. Avoid patterns are
// evaluated before prime patterns, so a name matching both resolves to
// avoid. Matching is substring-contains or exact-equals against the
// uppercased name; "West Broadway" matches the "BROADWAY" pattern.
func (c *Classifier) Classify(rawName string) PriorityTier {
	name := strings.ToUpper(rawName)
	if matchesAny(name, c.avoid) {
		return TierAvoid
	}
	if matchesAny(name, c.prime) {
		return TierPrime
	}
	return TierGood
}

func matchesAny(name string, patterns []string) bool {
	for _, p := range patterns {
		if name == p || strings.Contains(name, p) {
			return true
		}
	}
	return false
}
