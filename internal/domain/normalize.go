package domain

import (
	"regexp"
	"strings"
)

var (
	// trailingDirRe matches a directional final word that denotes a segment of
	// the same street, not a different street: "7 AVENUE SOUTH" and "7 AVENUE"
	// must converge because the plow and OSM feeds disagree on which form is
	// canonical.
	trailingDirRe = regexp.MustCompile(`\s+(NORTH|SOUTH|EAST|WEST)$`)

	// ordinalSuffixRe strips ST/ND/RD/TH directly after a digit run: "4TH" → "4".
	ordinalSuffixRe = regexp.MustCompile(`(\d+)(ST|ND|RD|TH)\b`)

	punctRe      = regexp.MustCompile(`[.,'-]`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// rewrite pairs a compiled pattern with its replacement.
type rewrite struct {
	re   *regexp.Regexp
	repl string
}

// leadingDirRewrites expands a directional abbreviation at the start of a
// name. Unlike a trailing direction, a leading one changes street identity
// (West 4th Street is not East 4th Street), so it is spelled out rather
// than stripped.
var leadingDirRewrites = []rewrite{
	{regexp.MustCompile(`^N\b\.?\s*`), "NORTH "},
	{regexp.MustCompile(`^S\b\.?\s*`), "SOUTH "},
	{regexp.MustCompile(`^E\b\.?\s*`), "EAST "},
	{regexp.MustCompile(`^W\b\.?\s*`), "WEST "},
}

// numberWordRewrites converts spelled-out ordinals to digits as whole words.
// Both datasets mix "West 4th Street" and "West Fourth Street".
var numberWordRewrites = []rewrite{
	{regexp.MustCompile(`\bFIRST\b`), "1"},
	{regexp.MustCompile(`\bSECOND\b`), "2"},
	{regexp.MustCompile(`\bTHIRD\b`), "3"},
	{regexp.MustCompile(`\bFOURTH\b`), "4"},
	{regexp.MustCompile(`\bFIFTH\b`), "5"},
	{regexp.MustCompile(`\bSIXTH\b`), "6"},
	{regexp.MustCompile(`\bSEVENTH\b`), "7"},
	{regexp.MustCompile(`\bEIGHTH\b`), "8"},
	{regexp.MustCompile(`\bNINTH\b`), "9"},
	{regexp.MustCompile(`\bTENTH\b`), "10"},
	{regexp.MustCompile(`\bELEVENTH\b`), "11"},
	{regexp.MustCompile(`\bTWELFTH\b`), "12"},
	{regexp.MustCompile(`\bTHIRTEENTH\b`), "13"},
	{regexp.MustCompile(`\bFOURTEENTH\b`), "14"},
	{regexp.MustCompile(`\bFIFTEENTH\b`), "15"},
	{regexp.MustCompile(`\bSIXTEENTH\b`), "16"},
	{regexp.MustCompile(`\bSEVENTEENTH\b`), "17"},
	{regexp.MustCompile(`\bEIGHTEENTH\b`), "18"},
	{regexp.MustCompile(`\bNINETEENTH\b`), "19"},
	{regexp.MustCompile(`\bTWENTIETH\b`), "20"},
}

// streetTypeRewrites expands street-type abbreviations as whole words with
// an optional trailing period.
var streetTypeRewrites = []rewrite{
	{regexp.MustCompile(`\bST\b\.?`), "STREET"},
	{regexp.MustCompile(`\bAVE?\b\.?`), "AVENUE"},
	{regexp.MustCompile(`\bBLVD\b\.?`), "BOULEVARD"},
	{regexp.MustCompile(`\bPL\b\.?`), "PLACE"},
	{regexp.MustCompile(`\bDR\b\.?`), "DRIVE"},
	{regexp.MustCompile(`\bRD\b\.?`), "ROAD"},
	{regexp.MustCompile(`\bCT\b\.?`), "COURT"},
	{regexp.MustCompile(`\bLN\b\.?`), "LANE"},
	{regexp.MustCompile(`\bPKWY\b\.?`), "PARKWAY"},
	{regexp.MustCompile(`\bSQ\b\.?`), "SQUARE"},
}

// Normalizer maps a raw street name to its canonical key. It never fails:
// any string input, including empty, yields a (possibly empty) key, and
// normalizing an already-canonical key returns it unchanged.
type Normalizer struct {
	aliases map[string]string
}

// NewNormalizer creates a Normalizer with the given alias table. Alias keys
// must already be in canonical form (the table is consulted after every
// other step, with a single non-recursive exact-match substitution).
func NewNormalizer(aliases map[string]string) *Normalizer {
	return &Normalizer{aliases: aliases}
}

// Normalize produces the canonical key for a raw street name. The steps run
// in a fixed order; later steps assume earlier ones already applied.
func (n *Normalizer) Normalize(raw string) string {
	key := strings.ToUpper(strings.TrimSpace(raw))

	key = trailingDirRe.ReplaceAllString(key, "")
	for _, rw := range leadingDirRewrites {
		key = rw.re.ReplaceAllString(key, rw.repl)
	}
	for _, rw := range numberWordRewrites {
		key = rw.re.ReplaceAllString(key, rw.repl)
	}
	for _, rw := range streetTypeRewrites {
		key = rw.re.ReplaceAllString(key, rw.repl)
	}
	key = ordinalSuffixRe.ReplaceAllString(key, "$1")
	key = punctRe.ReplaceAllString(key, "")
	key = strings.TrimSpace(whitespaceRe.ReplaceAllString(key, " "))

	if target, ok := n.aliases[key]; ok {
		key = target
	}
	return key
}
