package graphics

import (
	"image/color"
	"testing"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want Color
		ok   bool
	}{
		{"#f0f0f0", RGB(0xF0, 0xF0, 0xF0), true},
		{"#FFF", ColorWhite, true},
		{"  red ", ColorRed, true},
		{"#80ff0000", Color(0x80FF0000), true},
		{"Transparent", ColorTransparent, true},
		{"#12", 0, false},
		{"#zzzzzz", 0, false},
		{"rgb(1,2,3)", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseColor(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ParseColor(%q) = (%#08x, %v), want (%#08x, %v)", tt.in, uint32(got), ok, uint32(tt.want), tt.ok)
		}
	}
}

func TestColorImplementsColorModel(t *testing.T) {
	c := RGB(10, 20, 30)
	got := color.NRGBAModel.Convert(c).(color.NRGBA)
	want := color.NRGBA{R: 10, G: 20, B: 30, A: 255}
	if got != want {
		t.Errorf("NRGBA conversion = %v, want %v", got, want)
	}
}

func TestWithAlpha(t *testing.T) {
	c := ColorBlue.WithAlpha(0.5)
	if got := uint8(c >> 24); got != 128 {
		t.Errorf("alpha byte = %d, want 128", got)
	}
	if c&0x00FFFFFF != ColorBlue&0x00FFFFFF {
		t.Error("WithAlpha changed the color channels")
	}
	if got := ColorWhite.WithAlpha(2).Alpha(); got != 1 {
		t.Errorf("clamped alpha = %v, want 1", got)
	}
}

func TestHexRoundTrip(t *testing.T) {
	tests := []struct {
		c    Color
		want string
	}{
		{ColorBlack, "#000000"},
		{Color(0xFFF0F0F0), "#f0f0f0"},
		{ColorTransparent, "#00000000"},
		{Color(0x01020304), "#01020304"},
	}
	for _, tt := range tests {
		if got := tt.c.Hex(); got != tt.want {
			t.Errorf("Hex(%#x) = %q, want %q", uint32(tt.c), got, tt.want)
		}
		if back, ok := ParseColor(tt.c.Hex()); !ok || back != tt.c {
			t.Errorf("ParseColor(%q) = %#x, %v", tt.c.Hex(), uint32(back), ok)
		}
	}
}
