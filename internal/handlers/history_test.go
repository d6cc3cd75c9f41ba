package handlers

import "testing"

func TestTotalPages(t *testing.T) {
	tests := []struct {
		name  string
		total int
		limit int
		want  int
	}{
		{"empty", 0, 10, 0},
		{"one record", 1, 10, 1},
		{"exact page", 10, 10, 1},
		{"one over", 11, 10, 2},
		{"partial last page", 15, 10, 2},
		{"many pages", 101, 10, 11},
		{"limit one", 3, 1, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := totalPages(tt.total, tt.limit); got != tt.want {
				t.Errorf("totalPages(%d, %d) = %d, want %d", tt.total, tt.limit, got, tt.want)
			}
		})
	}
}
