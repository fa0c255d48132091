package htmlutil

import "testing"

func TestSingleLine(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"晴れ", "晴れ"},
		{"晴<br>時々曇", "晴 時々曇"},
		{"  曇\n\n後雨  ", "曇 後雨"},
		{"雨 &amp; 雷", "雨 & 雷"},
	}

	for _, tt := range tests {
		if got := SingleLine(tt.in); got != tt.want {
			t.Errorf("SingleLine(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
