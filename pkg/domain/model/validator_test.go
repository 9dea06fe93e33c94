package model_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/Rajgohel2908/Memora/pkg/domain/model"
)

type sampleInput struct {
	Title  string   `json:"title" validate:"max=5"`
	Mood   string   `json:"mood" validate:"mood"`
	Photos []string `json:"photos" validate:"max=2"`
	Lat    *float64 `json:"lat" validate:"omitempty,gte=-90,lte=90"`
	Date   string   `json:"memoryDate" validate:"required"`
}

func TestValidateStruct(t *testing.T) {
	outOfRange := 120.0
	inRange := 45.0

	tests := []struct {
		name    string
		input   sampleInput
		wantMsg string
	}{
		{name: "valid", input: sampleInput{Title: "ok", Mood: "happy", Date: "2024-01-01"}},
		{name: "empty mood is valid", input: sampleInput{Date: "2024-01-01", Lat: &inRange}},
		{name: "title too long", input: sampleInput{Title: "toolong", Date: "x"}, wantMsg: "title must be at most 5 characters"},
		{name: "unknown mood", input: sampleInput{Mood: "furious", Date: "x"}, wantMsg: "mood must be one of: happy"},
		{name: "too many photos", input: sampleInput{Photos: []string{"a", "b", "c"}, Date: "x"}, wantMsg: "photos must have at most 2 items"},
		{name: "latitude out of range", input: sampleInput{Lat: &outOfRange, Date: "x"}, wantMsg: "lat is out of range"},
		{name: "missing date", input: sampleInput{}, wantMsg: "memoryDate is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := model.ValidateStruct(tt.input)
			if tt.wantMsg == "" {
				gt.NoError(t, err)
				return
			}
			gt.Bool(t, errors.Is(err, model.ErrValidation)).True()
			gt.Bool(t, strings.Contains(err.Error(), tt.wantMsg)).True()
		})
	}
}
