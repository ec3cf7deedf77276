package ratings

import "testing"

func TestValidStar(t *testing.T) {
	valid := []string{"1", "3", "5", "4.5", "2.0"}
	for _, s := range valid {
		if !validStar(s) {
			t.Errorf("validStar(%q) = false, want true", s)
		}
	}

	invalid := []string{"0", "6", "-1", "", "five", "5.1"}
	for _, s := range invalid {
		if validStar(s) {
			t.Errorf("validStar(%q) = true, want false", s)
		}
	}
}
