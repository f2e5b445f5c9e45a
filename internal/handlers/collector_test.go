package handlers

import "testing"

func TestRemainingForFreeService(t *testing.T) {
	tests := []struct {
		completed int
		want      int
	}{
		{0, 10},
		{9, 1},
		{10, 0},
		{12, 0},
	}
	for _, tt := range tests {
		if got := remainingForFreeService(tt.completed); got != tt.want {
			t.Fatalf("remainingForFreeService(%d) = %d, want %d", tt.completed, got, tt.want)
		}
	}
}
