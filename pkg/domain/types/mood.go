package types

import (
	"fmt"
	"strings"
)

// Mood is the emotional tag a user attaches to a memory. The empty value
// means no mood was chosen.
type Mood string

const (
	MoodNone        Mood = ""
	MoodHappy       Mood = "happy"
	MoodNostalgic   Mood = "nostalgic"
	MoodPeaceful    Mood = "peaceful"
	MoodExcited     Mood = "excited"
	MoodGrateful    Mood = "grateful"
	MoodReflective  Mood = "reflective"
	MoodBittersweet Mood = "bittersweet"
	MoodAdventurous Mood = "adventurous"
)

// AllMoods returns every selectable mood in display order
func AllMoods() []Mood {
	return []Mood{
		MoodHappy,
		MoodNostalgic,
		MoodPeaceful,
		MoodExcited,
		MoodGrateful,
		MoodReflective,
		MoodBittersweet,
		MoodAdventurous,
	}
}

// IsValid reports whether m is one of the selectable moods. MoodNone is not
// a selectable mood; use IsValidOrNone where absence is allowed.
func (m Mood) IsValid() bool {
	switch m {
	case MoodHappy,
		MoodNostalgic,
		MoodPeaceful,
		MoodExcited,
		MoodGrateful,
		MoodReflective,
		MoodBittersweet,
		MoodAdventurous:
		return true
	default:
		return false
	}
}

// IsValidOrNone reports whether m is a selectable mood or MoodNone
func (m Mood) IsValidOrNone() bool {
	return m == MoodNone || m.IsValid()
}

// String returns the string representation of the mood
func (m Mood) String() string {
	return string(m)
}

// ParseMood parses a mood, accepting any case and surrounding spaces. An
// empty input yields MoodNone.
func ParseMood(s string) (Mood, error) {
	mood := Mood(strings.ToLower(strings.TrimSpace(s)))
	if !mood.IsValidOrNone() {
		return MoodNone, fmt.Errorf("invalid mood: %s", s)
	}
	return mood, nil
}
