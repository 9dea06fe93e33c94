package graph

import (
	"math"

	"github.com/Rajgohel2908/Memora/pkg/domain/types"
)

// Color is a CSS hex color such as "#B6AE9F"
type Color string

// Node sizes. Day nodes use a fixed size; group nodes grow with their member
// count up to a cap.
const (
	DayPhotoSize = 30.0
	DayTextSize  = 22.0

	MonthBaseSize    = 20.0
	MonthSizePerItem = 4.0
	MonthSizeCap     = 30.0

	YearBaseSize    = 30.0
	YearSizePerItem = 3.0
	YearSizeCap     = 40.0
)

// Emphasis constants. Dimmed group nodes stay more visible than dimmed day
// nodes so a coarse graph never looks empty.
const (
	FullOpacity        = 1.0
	DimmedDayOpacity   = 0.18
	DimmedGroupOpacity = 0.3

	DimmedEdgeOpacityFactor = 0.25
	DimmedEdgeWidth         = 0.5
)

// Palette holds the colors used by the builder
type Palette struct {
	Moods       map[types.Mood]Color
	Neutral     Color
	MonthBorder Color
	YearBorder  Color
}

// DefaultPalette returns the built-in mood palette
func DefaultPalette() Palette {
	return Palette{
		Moods: map[types.Mood]Color{
			types.MoodHappy:       "#E8C547",
			types.MoodNostalgic:   "#B8A9C9",
			types.MoodPeaceful:    "#A3B5A0",
			types.MoodExcited:     "#E8915A",
			types.MoodGrateful:    "#D4A59A",
			types.MoodReflective:  "#7BA0C4",
			types.MoodBittersweet: "#C4A3B0",
			types.MoodAdventurous: "#D4B778",
		},
		Neutral:     "#B6AE9F",
		MonthBorder: "#9A9285",
		YearBorder:  "#7D756A",
	}
}

// MoodColor returns the color of mood, or the neutral color when the mood
// is absent or has no palette entry.
func (p Palette) MoodColor(mood types.Mood) Color {
	if c, ok := p.Moods[mood]; ok && c != "" {
		return c
	}
	return p.Neutral
}

// Merge returns p with every non-empty color of override applied
func (p Palette) Merge(override Palette) Palette {
	merged := Palette{
		Moods:       make(map[types.Mood]Color, len(p.Moods)),
		Neutral:     p.Neutral,
		MonthBorder: p.MonthBorder,
		YearBorder:  p.YearBorder,
	}
	for k, v := range p.Moods {
		merged.Moods[k] = v
	}
	for k, v := range override.Moods {
		if v != "" {
			merged.Moods[k] = v
		}
	}
	if override.Neutral != "" {
		merged.Neutral = override.Neutral
	}
	if override.MonthBorder != "" {
		merged.MonthBorder = override.MonthBorder
	}
	if override.YearBorder != "" {
		merged.YearBorder = override.YearBorder
	}
	return merged
}

// GroupSize returns the node size of a group with count members. The result
// is non-decreasing in count and saturates at base+cap.
func GroupSize(res types.Resolution, count int) float64 {
	n := float64(max(count, 0))
	switch res {
	case types.ResolutionYear:
		return YearBaseSize + math.Min(n*YearSizePerItem, YearSizeCap)
	default:
		return MonthBaseSize + math.Min(n*MonthSizePerItem, MonthSizeCap)
	}
}

// DaySize returns the node size of a single memory
func DaySize(hasPhoto bool) float64 {
	if hasPhoto {
		return DayPhotoSize
	}
	return DayTextSize
}

func dimmedOpacity(res types.Resolution) float64 {
	if res == types.ResolutionDay {
		return DimmedDayOpacity
	}
	return DimmedGroupOpacity
}

type edgeStyle struct {
	color   Color
	opacity float64
	width   float64
	dashed  bool
}

func baseEdgeStyle(res types.Resolution, kind EdgeKind) edgeStyle {
	switch {
	case kind == EdgeSameDay:
		return edgeStyle{color: "#D4A59A", opacity: 0.4, width: 1, dashed: true}
	case res == types.ResolutionYear:
		return edgeStyle{color: "#B6AE9F", opacity: 0.5, width: 3}
	case res == types.ResolutionMonth:
		return edgeStyle{color: "#B6AE9F", opacity: 0.4, width: 2}
	default:
		return edgeStyle{color: "#B6AE9F", opacity: 0.3, width: 1.5}
	}
}
