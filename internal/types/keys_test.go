package types

import (
	"strings"
	"testing"
)

func TestTitleKeyCollision(t *testing.T) {
	long := strings.Repeat("a", 60)
	a := long + " first variant"
	b := long + " second variant"

	if TitleKey(a) != TitleKey(b) {
		t.Error("titles sharing a 60-char prefix must collide")
	}
	if TitleKey("RBI holds repo rate") == TitleKey("RBI cuts repo rate") {
		t.Error("short distinct titles must not collide")
	}
}

func TestTitleKeyNormalization(t *testing.T) {
	if TitleKey("  Nifty Hits Record High  ") != "nifty hits record high" {
		t.Errorf("got %q", TitleKey("  Nifty Hits Record High  "))
	}
}

func TestNameKey(t *testing.T) {
	// 12-char prefix: "Tata Technol" is shared.
	a := "Tata Technologies Ltd"
	b := "Tata Technologies IPO"
	if NameKey(a) != NameKey(b) {
		t.Error("names sharing a 12-char prefix must collide")
	}
	if NameKey("Tata Motors") == NameKey("Tata Technologies") {
		t.Error("names diverging within 12 chars must not collide")
	}
}

func TestKeyShorterThanPrefix(t *testing.T) {
	if NameKey("IREDA") != "ireda" {
		t.Errorf("got %q", NameKey("IREDA"))
	}
}
