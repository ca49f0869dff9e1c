package util

import (
	"testing"
	"time"
)

func TestMonthDayLabel(t *testing.T) {
	ts := time.Date(2024, 3, 7, 14, 30, 0, 0, time.UTC)
	if got := MonthDayLabel(ts); got != "3/7" {
		t.Fatalf("want 3/7, got %s", got)
	}
}

func TestParseNumber(t *testing.T) {
	cases := map[string]*float64{
		"12.5":     Ptr(12.5),
		"1,234.75": Ptr(1234.75),
		"3.1%":     Ptr(3.1),
		"1.2%":     Ptr(1.2),
		"13.10배":   Ptr(13.1),
		"4,950원":   Ptr(4950),
		"-0.75":    Ptr(-0.75),
		"-":        nil,
		"N/A":      nil,
		"n/a":      nil,
		"":         nil,
		"abc":      nil,
		"배":        nil,
	}
	for in, want := range cases {
		got := ParseNumber(in)
		if want == nil {
			if got != nil {
				t.Fatalf("%q: want absent, got %v", in, *got)
			}
			continue
		}
		if got == nil || *got != *want {
			t.Fatalf("%q: want %v, got %v", in, *want, got)
		}
	}
}

func TestNumberFromJSON(t *testing.T) {
	if v := NumberFromJSON([]byte(`12.5`)); v == nil || *v != 12.5 {
		t.Fatalf("numeric literal not parsed: %v", v)
	}
	if v := NumberFromJSON([]byte(`"8,654"`)); v == nil || *v != 8654 {
		t.Fatalf("numeric string not parsed: %v", v)
	}
	if v := NumberFromJSON([]byte(`null`)); v != nil {
		t.Fatalf("null should be absent")
	}
	if v := NumberFromJSON([]byte(`"-"`)); v != nil {
		t.Fatalf("placeholder should be absent")
	}
}

func TestCoalesceFirstNonAbsentWins(t *testing.T) {
	type src struct{ a, b *float64 }
	s := src{a: nil, b: Ptr(2.0)}
	calls := 0
	got := Coalesce(s,
		func(s src) *float64 { calls++; return s.a },
		func(s src) *float64 { calls++; return s.b },
		func(s src) *float64 { calls++; return Ptr(3.0) },
	)
	if got == nil || *got != 2 {
		t.Fatalf("want 2, got %v", got)
	}
	if calls != 2 {
		t.Fatalf("extractors after the first hit must not run, calls=%d", calls)
	}
}

func TestFillMissingNeverOverwrites(t *testing.T) {
	pe := Ptr(12.0)
	if FillMissing(&pe, Ptr(99.0)) {
		t.Fatalf("present value must not be overwritten")
	}
	if *pe != 12 {
		t.Fatalf("pe changed to %v", *pe)
	}
	var pbr *float64
	if !FillMissing(&pbr, Ptr(1.1)) || *pbr != 1.1 {
		t.Fatalf("absent value should be filled")
	}
}
