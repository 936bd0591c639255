package mockserver

import "strings"

type moodRule struct {
	mood     string
	keywords []string
}

// Checked in order; the first rule with a matching keyword wins.
var moodRules = []moodRule{
	{"Happy", []string{"happy", "joy", "excited"}},
	{"Melancholic", []string{"sad", "down", "depressed"}},
	{"Calm", []string{"relax", "calm", "peaceful"}},
	{"Energetic", []string{"energetic", "pumped", "workout"}},
	{"Focused", []string{"focus", "concentrate", "work"}},
}

var (
	positiveWords = []string{"good", "great", "awesome", "nice", "love", "like"}
	negativeWords = []string{"bad", "terrible", "hate", "dislike", "awful"}
)

// analyzeMood is a keyword heuristic standing in for the mood model.
// Matching is by substring, so "workout" also hits "work".
func analyzeMood(text string) string {
	lower := strings.ToLower(text)
	for _, rule := range moodRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.mood
			}
		}
	}

	score := 0
	for _, w := range positiveWords {
		if strings.Contains(lower, w) {
			score++
		}
	}
	for _, w := range negativeWords {
		if strings.Contains(lower, w) {
			score--
		}
	}
	switch {
	case score > 0:
		return "Happy"
	case score < 0:
		return "Melancholic"
	default:
		return "Neutral"
	}
}

var moodSongs = map[string][]string{
	"Happy": {
		"Pharrell Williams - Happy",
		"Lizzo - Good as Hell",
		"Katrina & The Waves - Walking on Sunshine",
	},
	"Melancholic": {
		"Adele - Someone Like You",
		"Coldplay - Fix You",
		"Johnny Cash - Hurt",
	},
	"Calm": {
		"Marconi Union - Weightless",
		"Claude Debussy - Clair de Lune",
		"Erik Satie - Gymnopédie No.1",
	},
	"Energetic": {
		"Survivor - Eye of the Tiger",
		"Macklemore & Ryan Lewis - Can't Hold Us",
		"Kanye West - Stronger",
	},
	"Focused": {
		"Ludovico Einaudi - Experience",
		"Hans Zimmer - Time",
		"Ludovico Einaudi - Divenire",
	},
	"Neutral": {
		"The Beatles - Here Comes the Sun",
		"Coldplay - Clocks",
		"Coldplay - Viva La Vida",
	},
}

// recommendationsFor returns the songs for mood, defaulting to Neutral.
func recommendationsFor(mood string) []string {
	if songs, ok := moodSongs[mood]; ok {
		return songs
	}
	return moodSongs["Neutral"]
}
