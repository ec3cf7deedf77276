package catalog

import (
	"testing"

	"everfresh/models"
)

func TestAverageStars(t *testing.T) {
	tests := []struct {
		name    string
		ratings []models.Rating
		want    float64
	}{
		{
			name: "rounds to one decimal",
			ratings: []models.Rating{
				{Star: "5"},
				{Star: "4"},
				{Star: "4"},
			},
			want: 4.3,
		},
		{
			name:    "no ratings",
			ratings: nil,
			want:    0,
		},
		{
			name: "skips unparseable stars",
			ratings: []models.Rating{
				{Star: "5"},
				{Star: "five"},
				{Star: "3"},
			},
			want: 4,
		},
		{
			name: "single rating",
			ratings: []models.Rating{
				{Star: "2"},
			},
			want: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AverageStars(tt.ratings); got != tt.want {
				t.Errorf("AverageStars() = %v, want %v", got, tt.want)
			}
		})
	}
}
