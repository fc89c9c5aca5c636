package domain

import (
	"errors"
	"reflect"
	"testing"
)

func TestOverlap_NormalizedMatch(t *testing.T) {
	got := Overlap([]string{"A", "b "}, []string{"  a", "C"})
	if !reflect.DeepEqual(got, []string{"A"}) {
		t.Errorf("expected [A], got %v", got)
	}
}

func TestOverlap_KeepsOrderAndDuplicates(t *testing.T) {
	mine := []string{"Pho Square", "Café Río", "pho square", "Green Bowl"}
	theirs := []string{"cafe rio", "PHO SQUARE"}

	got := Overlap(mine, theirs)
	want := []string{"Pho Square", "Café Río", "pho square"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestOverlap_Empty(t *testing.T) {
	if got := Overlap(nil, []string{"a"}); len(got) != 0 {
		t.Errorf("expected empty overlap, got %v", got)
	}
	if got := Overlap([]string{"a"}, nil); len(got) != 0 {
		t.Errorf("expected empty overlap, got %v", got)
	}
}

func TestParsePartnerLikes(t *testing.T) {
	got, err := ParsePartnerLikes(`["Tatsu Ramen", "Green Bowl"]`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"Tatsu Ramen", "Green Bowl"}) {
		t.Errorf("unexpected names %v", got)
	}

	got, err = ParsePartnerLikes("   ")
	if err != nil || len(got) != 0 {
		t.Errorf("expected empty list for blank input, got %v (err=%v)", got, err)
	}

	got, err = ParsePartnerLikes("null")
	if err != nil || got == nil || len(got) != 0 {
		t.Errorf("expected empty list for null, got %v (err=%v)", got, err)
	}
}

func TestParsePartnerLikes_Invalid(t *testing.T) {
	for _, raw := range []string{`not json`, `{"a":1}`, `[1,2]`, `["a"`} {
		_, err := ParsePartnerLikes(raw)
		if !errors.Is(err, ErrInvalidPartnerLikes) {
			t.Errorf("ParsePartnerLikes(%q): expected ErrInvalidPartnerLikes, got %v", raw, err)
		}
	}
}

func TestEncodeLikes(t *testing.T) {
	if got := EncodeLikes(nil); got != "[]" {
		t.Errorf("expected [], got %s", got)
	}
	if got := EncodeLikes([]string{"Pho & Co", "Río"}); got != `["Pho & Co","Río"]` {
		t.Errorf("unexpected encoding %s", got)
	}

	back, err := ParsePartnerLikes(EncodeLikes([]string{"A", "B"}))
	if err != nil || !reflect.DeepEqual(back, []string{"A", "B"}) {
		t.Errorf("encoded likes did not parse back: %v (err=%v)", back, err)
	}
}
