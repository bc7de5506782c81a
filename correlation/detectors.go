package correlation

import (
	"strings"
	"unicode"

	"github.com/rustyeddy/parlay/parlay"
)

type detector struct {
	typ   parlay.CorrelationType
	match func(a, b parlay.Selection) bool
}

// detectors is kept in parlay.CorrelationTypes order.
var detectors = []detector{
	{parlay.SamePlayerMultiProp, samePlayer},
	{parlay.ScriptDependency, script},
	{parlay.VolumeDependency, volume},
	{parlay.ScoringDependency, scoring},
	{parlay.PaceDependency, pace},
}

var volumeWords = []string{
	"yards", "yds", "receptions", "catches", "attempts", "completions",
	"carries", "targets", "rebounds", "assists", "shots", "strikeouts",
	"passing", "rushing", "receiving",
}

var scoringWords = []string{
	"touchdown", "touchdowns", "td", "tds", "anytime scorer", "first scorer",
	"to score", "goal", "goals", "home run", "first basket",
}

func sameGame(a, b parlay.Selection) bool {
	return a.Sport() == b.Sport() && a.GameID() == b.GameID()
}

func bothTagged(a, b parlay.Selection, t parlay.Tag) bool {
	return a.HasTag(t) && b.HasTag(t)
}

func samePlayer(a, b parlay.Selection) bool {
	if a.Sport() != b.Sport() {
		return false
	}
	if a.BetType() == parlay.PlayerProp && b.BetType() == parlay.PlayerProp &&
		a.PlayerID() != "" && a.PlayerID() == b.PlayerID() {
		return true
	}
	return sameGame(a, b) && bothTagged(a, b, parlay.TagSamePlayer)
}

// script: a side in the same game ties the other leg to how the game plays out.
func script(a, b parlay.Selection) bool {
	if !sameGame(a, b) {
		return false
	}
	return a.BetType().IsSide() || b.BetType().IsSide() || bothTagged(a, b, parlay.TagScript)
}

// volume: two players on the same team drawing from the same pool of
// touches or targets.
func volume(a, b parlay.Selection) bool {
	if !sameGame(a, b) {
		return false
	}
	if bothTagged(a, b, parlay.TagVolume) {
		return true
	}
	return isVolumeProp(a) && isVolumeProp(b) &&
		a.PlayerID() != b.PlayerID() &&
		a.TeamID() != "" && a.TeamID() == b.TeamID()
}

func scoring(a, b parlay.Selection) bool {
	if !sameGame(a, b) {
		return false
	}
	sa, sb := isScoring(a), isScoring(b)
	switch {
	case sa && sb:
		return true
	case sa:
		return b.BetType().IsTotal()
	case sb:
		return a.BetType().IsTotal()
	}
	return false
}

func pace(a, b parlay.Selection) bool {
	if !sameGame(a, b) {
		return false
	}
	if bothTagged(a, b, parlay.TagPace) {
		return true
	}
	ta, tb := a.BetType().IsTotal(), b.BetType().IsTotal()
	switch {
	case ta && tb:
		return true
	case ta:
		return isVolumeProp(b)
	case tb:
		return isVolumeProp(a)
	}
	return false
}

func isVolumeProp(s parlay.Selection) bool {
	if s.BetType() != parlay.PlayerProp {
		return false
	}
	return s.HasTag(parlay.TagVolume) || hasWord(s.Text(), volumeWords)
}

func isScoring(s parlay.Selection) bool {
	return s.HasTag(parlay.TagScoring) || hasWord(s.Text(), scoringWords)
}

// hasWord matches whole words or phrases, so "td" does not hit "std".
func hasWord(text string, words []string) bool {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	padded := " " + strings.Join(fields, " ") + " "
	for _, w := range words {
		if strings.Contains(padded, " "+w+" ") {
			return true
		}
	}
	return false
}
