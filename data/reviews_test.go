package data

import (
	"testing"

	"github.com/bookbuddy/api/internal/validator"
)

func TestSummarizeRatings(t *testing.T) {
	t.Run("empty review set", func(t *testing.T) {
		rating := SummarizeRatings(nil)
		if rating.Average != 0 {
			t.Errorf("expected average 0, got %g", rating.Average)
		}
		if rating.Total != 0 {
			t.Errorf("expected total 0, got %d", rating.Total)
		}
	})

	t.Run("average is the exact mean", func(t *testing.T) {
		rating := SummarizeRatings([]*Review{{Rating: 4}, {Rating: 2}})
		if rating.Average != 3.0 {
			t.Errorf("expected average 3.0, got %g", rating.Average)
		}
		if rating.Total != 2 {
			t.Errorf("expected total 2, got %d", rating.Total)
		}
	})

	t.Run("mean is not rounded", func(t *testing.T) {
		rating := SummarizeRatings([]*Review{{Rating: 5}, {Rating: 4}, {Rating: 4}})
		want := 13.0 / 3.0
		if rating.Average != want {
			t.Errorf("expected average %g, got %g", want, rating.Average)
		}
	})

	t.Run("star buckets", func(t *testing.T) {
		rating := SummarizeRatings([]*Review{
			{Rating: 5}, {Rating: 5}, {Rating: 4}, {Rating: 3}, {Rating: 1},
		})
		if rating.FiveStars != 2 || rating.FourStars != 1 || rating.ThreeStars != 1 || rating.TwoStars != 0 || rating.OneStar != 1 {
			t.Errorf("unexpected buckets: %+v", rating)
		}
		if rating.Total != 5 {
			t.Errorf("expected total 5, got %d", rating.Total)
		}
	})
}

func TestValidateReview(t *testing.T) {
	tests := []struct {
		name   string
		review Review
		valid  bool
	}{
		{"valid", Review{Content: "a thoroughly enjoyable read", Rating: 4}, true},
		{"rating too low", Review{Content: "a thoroughly enjoyable read", Rating: 0}, false},
		{"rating too high", Review{Content: "a thoroughly enjoyable read", Rating: 6}, false},
		{"empty content", Review{Content: "", Rating: 3}, false},
		{"content too short", Review{Content: "meh", Rating: 3}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := validator.New()
			ValidateReview(v, &tt.review)
			if v.Valid() != tt.valid {
				t.Errorf("expected valid=%v, errors: %v", tt.valid, v.Errors)
			}
		})
	}
}
