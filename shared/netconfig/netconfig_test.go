package netconfig

import "testing"

func TestParseSwitch(t *testing.T) {
	tests := []struct {
		in      string
		want    bool
		wantErr bool
	}{
		{"on", true, false},
		{"OFF", false, false},
		{"true", true, false},
		{"0", false, false},
		{"open", false, true},
	}
	for _, tt := range tests {
		got, err := ParseSwitch(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseSwitch(%q) err = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseSwitch(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
