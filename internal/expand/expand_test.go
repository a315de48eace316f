package expand

import (
	"reflect"
	"testing"
)

func TestExpand_NoBraces(t *testing.T) {
	inputs := []string{
		"cal today",
		"msg send --to team 'hello'",
		"",
		"issues list --limit 10",
	}
	for _, in := range inputs {
		got := Expand(in)
		if !reflect.DeepEqual(got, []string{in}) {
			t.Errorf("Expand(%q) = %v, want identity", in, got)
		}
	}
}

func TestExpand_NumericRange(t *testing.T) {
	got := Expand("a{1..3}")
	want := []string{"a1", "a2", "a3"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expand(a{1..3}) = %v, want %v", got, want)
	}
}

func TestExpand_ReverseRange(t *testing.T) {
	got := Expand("a{3..1}")
	want := []string{"a3", "a2", "a1"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expand(a{3..1}) = %v, want %v", got, want)
	}
}

func TestExpand_SignedRange(t *testing.T) {
	got := Expand("t{-1..1}")
	want := []string{"t-1", "t0", "t1"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expand(t{-1..1}) = %v, want %v", got, want)
	}
}

func TestExpand_List(t *testing.T) {
	got := Expand("deck export {q1, q2 ,q3}")
	want := []string{"deck export q1", "deck export q2", "deck export q3"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("list expansion = %v, want %v", got, want)
	}
}

func TestExpand_Cartesian(t *testing.T) {
	got := Expand("{a,b}{1,2}")
	want := []string{"a1", "a2", "b1", "b2"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expand({a,b}{1,2}) = %v, want %v", got, want)
	}
}

func TestExpand_OperatorsInsideBraces(t *testing.T) {
	// Chain operators inside a brace list stay inside the expanded
	// strings; expansion runs before chain parsing.
	got := Expand("run {x && y,z}")
	want := []string{"run x && y", "run z"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expand = %v, want %v", got, want)
	}
}

func TestAll_ConcatenatesInInputOrder(t *testing.T) {
	got := All([]string{"a{1,2}", "b"})
	want := []string{"a1", "a2", "b"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("All = %v, want %v", got, want)
	}
}
