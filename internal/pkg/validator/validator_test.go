package validator

import (
	"testing"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsNumeric(t *testing.T) {
	valid := []string{"123", "0", "9876543210"}
	invalid := []string{"abc", "123a", "", "-123"}
	for _, s := range valid {
		if !IsNumeric(s) {
			t.Errorf("IsNumeric(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if IsNumeric(s) {
			t.Errorf("IsNumeric(%q) = true, want false", s)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	valid := []string{"2023-01-01", "2000-12-31"}
	invalid := []string{"2023-13-01", "2023-01-32", "2023/01/01", "01-01-2023", ""}
	for _, s := range valid {
		_, ok := IsValidDate(s)
		if !ok {
			t.Errorf("IsValidDate(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		_, ok := IsValidDate(s)
		if ok {
			t.Errorf("IsValidDate(%q) = true, want false", s)
		}
	}
}

func TestIsValidStateCode(t *testing.T) {
	valid := []string{"UT", "tx", "Ca"}
	invalid := []string{"U", "UTA", "U1", "", "  "}
	for _, s := range valid {
		if !IsValidStateCode(s) {
			t.Errorf("IsValidStateCode(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if IsValidStateCode(s) {
			t.Errorf("IsValidStateCode(%q) = true, want false", s)
		}
	}
}

func TestParseID(t *testing.T) {
	cases := []struct {
		input  string
		wantID int64
		wantOK bool
	}{
		{"1", 1, true},
		{"42", 42, true},
		{"0", 0, false},
		{"-5", 0, false},
		{"abc", 0, false},
		{"", 0, false},
	}
	for _, c := range cases {
		id, ok := ParseID(c.input)
		if id != c.wantID || ok != c.wantOK {
			t.Errorf("ParseID(%q) = (%d, %v), want (%d, %v)", c.input, id, ok, c.wantID, c.wantOK)
		}
	}
}

func TestIsInSlice(t *testing.T) {
	slice := []string{"a", "b", "c"}
	if !IsInSlice("a", slice) {
		t.Errorf("IsInSlice('a') = false, want true")
	}
	if IsInSlice("d", slice) {
		t.Errorf("IsInSlice('d') = true, want false")
	}
}

func TestValidationErrors_Error(t *testing.T) {
	errs := ValidationErrors{
		{Field: "user_id", Message: "is required"},
		{Field: "state_code", Message: "must be a two-letter state code"},
	}
	got := errs.Error()
	want := "user_id: is required; state_code: must be a two-letter state code"
	if got != want {
		t.Errorf("ValidationErrors.Error() = %q, want %q", got, want)
	}
}

func TestValidationErrors_ToMap(t *testing.T) {
	errs := ValidationErrors{
		{Field: "user_id", Message: "is required"},
		{Field: "state_code", Message: "must be a two-letter state code"},
	}
	got := errs.ToMap()
	want := map[string]string{"user_id": "is required", "state_code": "must be a two-letter state code"}
	if len(got) != len(want) {
		t.Errorf("ValidationErrors.ToMap() length = %d, want %d", len(got), len(want))
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("ValidationErrors.ToMap()[%q] = %q, want %q", k, got[k], v)
		}
	}
}
