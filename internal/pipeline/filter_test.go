package pipeline

import "testing"

func item(pairs ...any) map[string]any {
	m := make(map[string]any, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		m[pairs[i].(string)] = pairs[i+1]
	}
	return m
}

func TestEvaluateFilter_Comparisons(t *testing.T) {
	it := item("status", "active", "priority", 3.0, "done", false)

	tests := []struct {
		expr string
		want bool
	}{
		{`status == 'active'`, true},
		{`status == "closed"`, false},
		{`status != 'closed'`, true},
		{`priority > 2`, true},
		{`priority > 3`, false},
		{`priority >= 3`, true},
		{`priority < 10`, true},
		{`priority <= 2`, false},
		{`done == false`, true},
		{`done`, false},
		{`not done`, true},
	}
	for _, tt := range tests {
		if got := EvaluateFilter(it, tt.expr); got != tt.want {
			t.Errorf("EvaluateFilter(%q) = %v, want %v", tt.expr, got, tt.want)
		}
	}
}

func TestEvaluateFilter_BooleanLogic(t *testing.T) {
	it := item("status", "open", "priority", 5.0)

	tests := []struct {
		expr string
		want bool
	}{
		{`status == 'open' and priority > 3`, true},
		{`status == 'closed' and priority > 3`, false},
		{`status == 'closed' or priority > 3`, true},
		{`not (status == 'closed')`, true},
		{`status == 'open' AND priority > 3`, true}, // keywords are case-insensitive
	}
	for _, tt := range tests {
		if got := EvaluateFilter(it, tt.expr); got != tt.want {
			t.Errorf("EvaluateFilter(%q) = %v, want %v", tt.expr, got, tt.want)
		}
	}
}

func TestEvaluateFilter_StringTests(t *testing.T) {
	it := item("title", "Fix Login Bug")

	tests := []struct {
		expr string
		want bool
	}{
		{`title contains 'login'`, true}, // case-insensitive
		{`title contains 'logout'`, false},
		{`title startsWith 'fix'`, true},
		{`title endsWith 'bug'`, true},
		{`title endsWith 'fix'`, false},
	}
	for _, tt := range tests {
		if got := EvaluateFilter(it, tt.expr); got != tt.want {
			t.Errorf("EvaluateFilter(%q) = %v, want %v", tt.expr, got, tt.want)
		}
	}
}

func TestEvaluateFilter_NestedFieldPath(t *testing.T) {
	it := item("assignee", map[string]any{"name": "bo"})
	if !EvaluateFilter(it, `assignee.name == 'bo'`) {
		t.Error("nested path comparison failed")
	}
}

func TestEvaluateFilter_ScalarBindsValue(t *testing.T) {
	if !EvaluateFilter(7.0, `value > 5`) {
		t.Error("scalar item must bind as value")
	}
	if EvaluateFilter("", `value`) {
		t.Error("empty string must be falsy")
	}
}

func TestEvaluateFilter_NumericCoercion(t *testing.T) {
	// JSON numbers decode as float64; integer literals still compare equal.
	if !EvaluateFilter(item("n", 2.0), `n == 2`) {
		t.Error("2.0 == 2 must hold")
	}
}

func TestEvaluateFilter_ErrorsNeverPropagate(t *testing.T) {
	it := item("status", "open")

	// Broken expressions and unknown fields are simply non-matching.
	broken := []string{
		`status ==`,
		`(status == 'open'`,
		`status == 'unterminated`,
		`@@@`,
		`missing == 'x'`,
	}
	for _, expr := range broken {
		if EvaluateFilter(it, expr) {
			t.Errorf("EvaluateFilter(%q) matched", expr)
		}
	}
}

func TestParseFilter_RejectsTrailingTokens(t *testing.T) {
	if _, err := ParseFilter(`status == 'open' garbage trailing`); err == nil {
		t.Error("trailing tokens accepted")
	}
}

func TestFilterEval_UnknownFieldIsError(t *testing.T) {
	f, err := ParseFilter(`missing == 1`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, err := f.Eval(item("present", 1.0)); err == nil {
		t.Error("unknown field must surface an evaluation error")
	}
}
