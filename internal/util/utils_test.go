package util

import (
	"reflect"
	"testing"
)

func TestParseCSVList_Empty_ReturnsNil(t *testing.T) {
	if got := ParseCSVList(""); got != nil {
		t.Fatalf("expected nil, got: %#v", got)
	}
	if got := ParseCSVList("   "); got != nil {
		t.Fatalf("expected nil for blank input, got: %#v", got)
	}
}

func TestParseCSVList_SplitsAndTrims(t *testing.T) {
	got := ParseCSVList(" Nombre , Correo,  Estado ")
	want := []string{"Nombre", "Correo", "Estado"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v, want %#v", got, want)
	}
}

func TestParseCSVList_RemovesEmptyParts(t *testing.T) {
	got := ParseCSVList("a,, ,b, , ,c,")
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v, want %#v", got, want)
	}
}

func TestParseCSVList_SingleValueNoComma(t *testing.T) {
	got := ParseCSVList("Nombre")
	want := []string{"Nombre"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v, want %#v", got, want)
	}
}

func TestParseCSVList_AllSpacesAfterSplit_ReturnsEmptySlice(t *testing.T) {
	got := ParseCSVList(" , ,  ,")
	if got == nil {
		t.Fatalf("expected non-nil empty slice, got nil")
	}
	if len(got) != 0 {
		t.Fatalf("expected empty slice, got: %#v", got)
	}
}
