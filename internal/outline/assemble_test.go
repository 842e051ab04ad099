package outline

import (
	"reflect"
	"testing"
)

func TestAssemble_DropsNoise(t *testing.T) {
	got := Assemble([]Candidate{
		{Text: "......", Level: H3, Page: 1, FontSize: 12},
		{Text: "12", Level: H1, Page: 1, FontSize: 14},
		{Text: "Scope", Level: H1, Page: 1, FontSize: 14},
		{Text: "#!", Level: H2, Page: 2, FontSize: 12},
	})
	if len(got) != 1 || got[0].Text != "Scope" {
		t.Fatalf("expected only %q, got %+v", "Scope", got)
	}
}

func TestAssemble_DedupKeepsFirst(t *testing.T) {
	got := Assemble([]Candidate{
		{Text: "Methods", Level: H2, Page: 3, FontSize: 12, FontName: "Arial"},
		{Text: "Methods", Level: H1, Page: 3, FontSize: 16, FontName: "Arial-Bold"},
		{Text: "Methods", Level: H2, Page: 4, FontSize: 12},
	})
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d: %+v", len(got), got)
	}
	if got[0].Page != 3 || got[0].Level != H2 || got[0].FontName != "Arial" {
		t.Errorf("expected first occurrence on page 3 kept, got %+v", got[0])
	}
	if got[1].Page != 4 {
		t.Errorf("expected page 4 entry kept, got %+v", got[1])
	}
}

func TestAssemble_Ordering(t *testing.T) {
	got := Assemble([]Candidate{
		{Text: "Late", Page: 5, FontSize: 20},
		{Text: "Small", Page: 2, FontSize: 10},
		{Text: "Large", Page: 2, FontSize: 18},
		{Text: "Tie A", Page: 2, FontSize: 14},
		{Text: "Tie B", Page: 2, FontSize: 14},
		{Text: "Early", Page: 1, FontSize: 9},
	})
	want := []string{"Early", "Large", "Tie A", "Tie B", "Small", "Late"}
	var texts []string
	for _, c := range got {
		texts = append(texts, c.Text)
	}
	if !reflect.DeepEqual(texts, want) {
		t.Errorf("expected order %v, got %v", want, texts)
	}
}

func TestAssemble_Idempotent(t *testing.T) {
	in := []Candidate{
		{Text: "Beta", Level: H2, Page: 2, FontSize: 12},
		{Text: "Alpha", Level: H1, Page: 1, FontSize: 16},
		{Text: "Beta", Level: H2, Page: 2, FontSize: 12},
		{Text: "-----", Level: H3, Page: 2, FontSize: 10},
		{Text: "Gamma", Level: H3, Page: 2, FontSize: 12},
	}
	once := Assemble(in)
	twice := Assemble(once)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("expected identical output on second pass:\n%+v\n%+v", once, twice)
	}
}

func TestAssemble_Empty(t *testing.T) {
	got := Assemble(nil)
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", got)
	}
}
