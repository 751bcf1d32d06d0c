package billing

import "testing"

func TestParseClock(t *testing.T) {
	cases := []struct {
		input   string
		want    Clock
		wantErr bool
	}{
		{"09:00", Clock{9, 0}, false},
		{"00:00", Clock{0, 0}, false},
		{"23:59", Clock{23, 59}, false},
		{"24:00", Clock{}, true},
		{"12:60", Clock{}, true},
		{"-1:30", Clock{}, true},
		{"junk", Clock{}, true},
		{"", Clock{}, true},
		{"9", Clock{}, true},
	}

	for _, tc := range cases {
		got, err := ParseClock(tc.input)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseClock(%q): expected error, got %+v", tc.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseClock(%q): unexpected error %v", tc.input, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseClock(%q) = %+v, want %+v", tc.input, got, tc.want)
		}
	}
}

func TestDurationHours(t *testing.T) {
	cases := []struct {
		start string
		end   string
		want  float64
	}{
		{"09:00", "17:00", 8.00},
		{"22:00", "06:00", 8.00}, // overnight wrap
		{"08:00", "08:00", 0.00},
		{"08:00", "08:30", 0.50},
		{"23:59", "00:00", 0.02}, // 1 minute wrapped, rounded
		{"00:00", "23:59", 23.98},
		{"13:15", "14:40", 1.42},
	}

	for _, tc := range cases {
		start, err := ParseClock(tc.start)
		if err != nil {
			t.Fatalf("ParseClock(%q): %v", tc.start, err)
		}
		end, err := ParseClock(tc.end)
		if err != nil {
			t.Fatalf("ParseClock(%q): %v", tc.end, err)
		}

		got := DurationHours(start, end)
		if got != tc.want {
			t.Errorf("DurationHours(%s, %s) = %.2f, want %.2f", tc.start, tc.end, got, tc.want)
		}
	}
}

func TestDurationHoursAlwaysWithinOneDay(t *testing.T) {
	// The wrap policy bounds every valid pair within [0, 24).
	for startMin := 0; startMin < 24*60; startMin += 17 {
		for endMin := 0; endMin < 24*60; endMin += 23 {
			start := Clock{Hour: startMin / 60, Minute: startMin % 60}
			end := Clock{Hour: endMin / 60, Minute: endMin % 60}
			got := DurationHours(start, end)
			if got < 0 || got >= 24 {
				t.Fatalf("DurationHours(%+v, %+v) = %.2f out of range", start, end, got)
			}
		}
	}
}

func TestDurationHoursFromStrings(t *testing.T) {
	if _, ok, err := DurationHoursFromStrings("", "17:00"); ok || err != nil {
		t.Errorf("empty start: expected ok=false err=nil, got ok=%v err=%v", ok, err)
	}
	if _, ok, err := DurationHoursFromStrings("09:00", ""); ok || err != nil {
		t.Errorf("empty end: expected ok=false err=nil, got ok=%v err=%v", ok, err)
	}

	if _, _, err := DurationHoursFromStrings("9am", "17:00"); err == nil {
		t.Error("malformed start: expected error")
	}

	hours, ok, err := DurationHoursFromStrings("09:00", "17:30")
	if err != nil || !ok {
		t.Fatalf("expected ok computation, got ok=%v err=%v", ok, err)
	}
	if hours != 8.5 {
		t.Errorf("hours = %.2f, want 8.50", hours)
	}
}
