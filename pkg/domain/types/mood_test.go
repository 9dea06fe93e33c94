package types_test

import (
	"testing"

	"github.com/Rajgohel2908/Memora/pkg/domain/types"
	"github.com/m-mizutani/gt"
)

func TestMood_IsValid(t *testing.T) {
	for _, mood := range types.AllMoods() {
		gt.B(t, mood.IsValid()).
			Describef("Mood %s should be valid", mood).
			True()
	}

	gt.B(t, types.MoodNone.IsValid()).False()
	gt.B(t, types.MoodNone.IsValidOrNone()).True()
	gt.B(t, types.Mood("furious").IsValidOrNone()).False()
}

func TestParseMood(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    types.Mood
		wantErr bool
	}{
		{name: "lowercase", input: "happy", want: types.MoodHappy},
		{name: "mixed case with spaces", input: "  Bittersweet ", want: types.MoodBittersweet},
		{name: "empty is none", input: "", want: types.MoodNone},
		{name: "unknown", input: "furious", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := types.ParseMood(tt.input)
			if tt.wantErr {
				gt.Error(t, err)
			} else {
				gt.NoError(t, err)
				gt.V(t, got).Equal(tt.want)
			}
		})
	}
}

func TestAllMoods(t *testing.T) {
	gt.A(t, types.AllMoods()).Length(8)
}
