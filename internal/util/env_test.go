package util

import "testing"

func TestParseBoolEnv(t *testing.T) {
	tests := []struct {
		value        string
		defaultValue bool
		want         bool
	}{
		{"true", false, true},
		{"1", false, true},
		{"YES", false, true},
		{"on", false, true},
		{"false", true, false},
		{"0", true, false},
		{"no", true, false},
		{"OFF", true, false},
		{" true ", false, true},
		{"maybe", true, true},
		{"maybe", false, false},
		{"", true, true},
	}
	for _, tt := range tests {
		t.Setenv("TEST_BOOL", tt.value)
		if got := ParseBoolEnv("TEST_BOOL", tt.defaultValue); got != tt.want {
			t.Errorf("value %q default %v: got %v", tt.value, tt.defaultValue, got)
		}
	}
}

func TestGetenvDefault(t *testing.T) {
	t.Setenv("TEST_STR", "value")
	if got := GetenvDefault("TEST_STR", "fallback"); got != "value" {
		t.Errorf("got %q", got)
	}
	t.Setenv("TEST_STR", "")
	if got := GetenvDefault("TEST_STR", "fallback"); got != "fallback" {
		t.Errorf("got %q", got)
	}
}
