package docnum

import "testing"

func TestNext(t *testing.T) {
	series := Series{Prefix: "EEL"}

	tests := []struct {
		name     string
		year     int
		last     string
		expected string
	}{
		{"empty series seeds at one", 2026, "", "EEL/2026/001"},
		{"increments over last", 2026, "EEL/2026/001", "EEL/2026/002"},
		{"increments mid-series", 2026, "EEL/2026/006", "EEL/2026/007"},
		{"crosses tens boundary", 2026, "EEL/2026/009", "EEL/2026/010"},
		{"crosses hundreds boundary", 2026, "EEL/2026/099", "EEL/2026/100"},
		{"widens past three digits", 2026, "EEL/2026/999", "EEL/2026/1000"},
		{"keeps widened width", 2026, "EEL/2026/1000", "EEL/2026/1001"},
		{"new year reseeds regardless of previous height", 2027, "", "EEL/2027/001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := series.Next(tt.year, tt.last)
			if err != nil {
				t.Fatalf("Next(%d, %q) returned error: %v", tt.year, tt.last, err)
			}
			if got != tt.expected {
				t.Errorf("Next(%d, %q) = %q, expected %q", tt.year, tt.last, got, tt.expected)
			}
		})
	}
}

func TestNextMalformed(t *testing.T) {
	series := Series{Prefix: "EEL"}

	for _, last := range []string{"EEL/2026/", "garbage", "EEL/2026/abc"} {
		if _, err := series.Next(2026, last); err == nil {
			t.Errorf("Next(2026, %q) expected error, got none", last)
		}
	}
}

func TestSequence(t *testing.T) {
	tests := []struct {
		number   string
		expected int
	}{
		{"EEL/2026/001", 1},
		{"EEL/2026/042", 42},
		{"EEL/2026/1000", 1000},
	}

	for _, tt := range tests {
		got, err := Sequence(tt.number)
		if err != nil {
			t.Fatalf("Sequence(%q) returned error: %v", tt.number, err)
		}
		if got != tt.expected {
			t.Errorf("Sequence(%q) = %d, expected %d", tt.number, got, tt.expected)
		}
	}
}

func TestYearPrefix(t *testing.T) {
	series := Series{Prefix: "EEL"}
	if got := series.YearPrefix(2026); got != "EEL/2026/" {
		t.Errorf("YearPrefix(2026) = %q, expected %q", got, "EEL/2026/")
	}
}
