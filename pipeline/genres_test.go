package pipeline

import "testing"

func TestGenreID(t *testing.T) {
	tests := []struct {
		name   string
		wantID int64
		wantOK bool
	}{
		{"action", 28, true},
		{"Science Fiction", 878, true},
		{" Comedy ", 35, true},
		{"musical", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		id, ok := GenreID(tt.name)
		if ok != tt.wantOK || id != tt.wantID {
			t.Errorf("GenreID(%q) = (%d, %v), expected (%d, %v)", tt.name, id, ok, tt.wantID, tt.wantOK)
		}
	}
}

func TestMapGenres(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"single genre", "comedy", "35"},
		{"multiple genres", "action, thriller", "28,53"},
		{"unknown names dropped", "action, musical, thriller", "28,53"},
		{"all unknown", "musical, opera", ""},
		{"empty input", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MapGenres(tt.input); got != tt.want {
				t.Errorf("MapGenres(%q) = %q, expected %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestScanGenres(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"one mention", "funny comedy movies", "35"},
		{"scan order is stable", "thriller before action", "28,53"},
		{"two word genre", "a Science Fiction epic", "878"},
		{"no mention", "movies from 2004", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ScanGenres(tt.text); got != tt.want {
				t.Errorf("ScanGenres(%q) = %q, expected %q", tt.text, got, tt.want)
			}
		})
	}
}
