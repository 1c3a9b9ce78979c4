package lookup

import (
	"regexp"
	"strings"

	"travel-scraper/models"
)

type trainTypeRule struct {
	kind models.TrainType
	// substrings are matched anywhere in the lowercased name
	substrings []string
	// tokens are short abbreviations that only count as whole words
	tokens []string
}

// Order matters: a "Rajdhani Express" is a Rajdhani, not an Express.
var trainTypeRules = []trainTypeRule{
	{kind: models.TrainRajdhani, substrings: []string{"rajdhani"}},
	{kind: models.TrainShatabdi, substrings: []string{"shatabdi"}},
	{kind: models.TrainDuronto, substrings: []string{"duronto"}},
	{kind: models.TrainVandeBharat, substrings: []string{"vande bharat", "vandebharat"}},
	{kind: models.TrainGaribRath, substrings: []string{"garib rath"}},
	{kind: models.TrainHumsafar, substrings: []string{"humsafar"}},
	{kind: models.TrainTejas, substrings: []string{"tejas"}},
	{kind: models.TrainSuperfast, substrings: []string{"superfast", "s.f."}, tokens: []string{"sf"}},
	{kind: models.TrainExpress, substrings: []string{"express", "mail"}, tokens: []string{"exp"}},
	{kind: models.TrainPassenger, substrings: []string{"passenger"}, tokens: []string{"pass"}},
}

var wordRe = regexp.MustCompile(`[a-z0-9]+`)

// ClassifyTrainType derives the service class from a train name. Names that
// match no keyword are Express.
func ClassifyTrainType(name string) models.TrainType {
	lower := strings.ToLower(name)
	words := make(map[string]struct{})
	for _, w := range wordRe.FindAllString(lower, -1) {
		words[w] = struct{}{}
	}

	for _, rule := range trainTypeRules {
		for _, s := range rule.substrings {
			if strings.Contains(lower, s) {
				return rule.kind
			}
		}
		for _, tok := range rule.tokens {
			if _, ok := words[tok]; ok {
				return rule.kind
			}
		}
	}
	return models.TrainExpress
}
