package qs

import "testing"

func TestInterpretNumericEntitiesDecimal(t *testing.T) {
	got := interpretNumericEntities("&#233;")
	if got != "é" {
		t.Fatalf("got %q", got)
	}
}

func TestInterpretNumericEntitiesHex(t *testing.T) {
	got := interpretNumericEntities("&#xe9;")
	if got != "é" {
		t.Fatalf("got %q", got)
	}
}

func TestInterpretNumericEntitiesHexUppercase(t *testing.T) {
	got := interpretNumericEntities("&#XE9;")
	if got != "é" {
		t.Fatalf("got %q", got)
	}
}

func TestInterpretNumericEntitiesLeavesOverflowVerbatim(t *testing.T) {
	input := "&#99999999999;"
	got := interpretNumericEntities(input)
	if got != input {
		t.Fatalf("got %q, want verbatim %q", got, input)
	}
}

func TestInterpretNumericEntitiesLeavesNonEntityTextAlone(t *testing.T) {
	input := "plain text with no entities"
	got := interpretNumericEntities(input)
	if got != input {
		t.Fatalf("got %q", got)
	}
}

func TestInterpretNumericEntitiesMultipleInOneString(t *testing.T) {
	got := interpretNumericEntities("&#65;&#66;&#67;")
	if got != "ABC" {
		t.Fatalf("got %q", got)
	}
}
