package chessresults

import (
	"regexp"
	"strings"
)

// Last-resort heuristics over the tournament name, used only after every page
// signal has come up empty. Declared as variables so deployments tracking a
// different circuit can swap them.

var locationKeywords = []struct {
	keyword  string
	location string
}{
	{"ELDORET", "Eldoret"},
	{"KISUMU", "Kisumu"},
	{"WARIDI", "Nairobi"},
	{"MAVENS", "Nairobi"},
	{"NAKURU", "Nakuru"},
	{"QUO VADIS", "Nyeri"},
	{"KIAMBU", "Kiambu"},
	{"KITALE", "Kitale"},
	{"MOMBASA", "Mombasa"},
	{"BUNGOMA", "Bungoma"},
}

var trailingLocationRegex = regexp.MustCompile(`OPEN\s+(?:CHESS\s+)?(?:CHAMPIONSHIP\s+)?([A-Z\s]+)$`)

// InferLocation guesses the host town from the tournament name. It always
// answers; Nairobi is the fallback for the circuit this tracker covers.
var InferLocation = func(name string) string {
	normalized := strings.ToUpper(strings.TrimSpace(name))
	if normalized == "" {
		return "Nairobi"
	}

	for _, entry := range locationKeywords {
		if strings.Contains(normalized, entry.keyword) {
			return entry.location
		}
	}

	if m := trailingLocationRegex.FindStringSubmatch(normalized); m != nil {
		if guess := titleCase(m[1]); guess != "" {
			return guess
		}
	}

	return "Nairobi"
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

var eightRoundKeywords = []string{
	"MAVENS",
	"NAIROBI COUNTY",
	"QUO VADIS",
	"KENYA OPEN",
	"GRAND CHESS TOURNAMENT",
}

// InferRounds guesses the round count from the tournament name, falling back
// to the given default.
var InferRounds = func(name string, fallback int) int {
	normalized := strings.ToUpper(name)
	for _, keyword := range eightRoundKeywords {
		if strings.Contains(normalized, keyword) {
			return 8
		}
	}
	return fallback
}
