package parser

import (
	"regexp"
	"strings"

	"github.com/Ernest01982/winelistmanager/internal/models"
)

// colorSynonyms maps explicit colour tokens, lower-cased and trimmed, to
// category codes. Canonical names map to themselves so normalization is
// idempotent.
var colorSynonyms = map[string]models.WineColor{
	"red":       models.ColorRed,
	"rouge":     models.ColorRed,
	"rooi":      models.ColorRed,
	"tinto":     models.ColorRed,
	"white":     models.ColorWhite,
	"blanc":     models.ColorWhite,
	"wit":       models.ColorWhite,
	"blanco":    models.ColorWhite,
	"rose":      models.ColorRose,
	"rosé":      models.ColorRose,
	"blush":     models.ColorRose,
	"pink":      models.ColorRose,
	"dessert":   models.ColorDessert,
	"sweet":     models.ColorDessert,
	"fortified": models.ColorDessert,
}

type colorRule struct {
	color   models.WineColor
	pattern *regexp.Regexp
}

// nameRules is scanned in order against the product name when no
// explicit colour token resolved; the first matching rule wins. The
// order is deliberate policy: rose markers beat varietals ("Shiraz
// Rosé" is a rosé), dessert markers beat the white varietals they often
// ride on ("Noble Late Harvest Chenin"), and sparkling indicators such
// as "brut" classify WHITE ahead of the red rules.
var nameRules = []colorRule{
	{models.ColorRose, regexp.MustCompile(`(?i)\bros[eé]\b|\bblush\b|\bpink\b`)},
	{models.ColorDessert, regexp.MustCompile(`(?i)\bmuscadel\b|\bhanepoot\b|\bjerepi[gk]o\b|\bnoble late\b|\blate harvest\b|\bport\b|\bstraw wine\b|\bdessert\b`)},
	{models.ColorWhite, regexp.MustCompile(`(?i)\bsauvignon blanc\b|\bchenin\b|\bchardonnay\b|\briesling\b|\bviognier\b|\bs[ée]millon\b|\bcolombar\b|\bverdelho\b|\bgewürztraminer\b|\bgewurztraminer\b|\bbrut\b|\bsparkling\b|\bcap classique\b|\bmcc\b|\bprosecco\b|\bblanc de blancs?\b`)},
	{models.ColorRed, regexp.MustCompile(`(?i)\bcabernet\b|\bshiraz\b|\bsyrah\b|\bmerlot\b|\bpinotage\b|\bmalbec\b|\bgrenache\b|\bmourv[eè]dre\b|\bcinsaut\b|\bcinsault\b|\bpinot noir\b|\btinta\b|\bred blend\b|\bruby\b`)},
}

// NormalizeColor resolves an explicit colour token and/or a product name
// to one of the canonical category codes, or "" when nothing matches.
// No default is ever guessed here - "assume RED" style substitution is a
// display-time policy, not an ingestion one.
func NormalizeColor(raw, productName string) models.WineColor {
	token := strings.ToLower(strings.TrimSpace(raw))
	if c, ok := colorSynonyms[token]; ok {
		return c
	}
	if productName != "" {
		for _, rule := range nameRules {
			if rule.pattern.MatchString(productName) {
				return rule.color
			}
		}
	}
	return ""
}

// sectionLabelSuffix trims the trailing "wine"/"wines" qualifier off a
// section label so "Red Wine" and "White Wines" resolve like bare
// colour tokens.
var sectionLabelSuffix = regexp.MustCompile(`(?i)\s+wines?$`)

// MatchSectionLabel reports whether a short free-text line is a
// colour-section marker ("Red Wine", "ROSE", "Sparkling Wines") and
// which category it names. Resolution follows the same order as product
// rows: synonym table first, then the keyword rules, so a label like
// "Sparkling Wines" lands WHITE even though no synonym names it. Long
// lines never match: a product name that merely contains a colour word
// is not a section row.
func MatchSectionLabel(label string) (models.WineColor, bool) {
	label = strings.TrimSpace(label)
	if label == "" || len(label) > 32 || len(strings.Fields(label)) > 3 {
		return "", false
	}
	token := strings.ToLower(strings.TrimSpace(sectionLabelSuffix.ReplaceAllString(label, "")))
	if c, ok := colorSynonyms[token]; ok {
		return c, true
	}
	for _, rule := range nameRules {
		if rule.pattern.MatchString(token) {
			return rule.color, true
		}
	}
	return "", false
}
