package strata

import "testing"

func TestParseScalar(t *testing.T) {
	cases := []struct {
		raw  string
		want *Value
	}{
		{"true", BoolValue(true)},
		{"false", BoolValue(false)},
		{"42", IntValue(42)},
		{"-7", IntValue(-7)},
		{"3.14", FloatValue(3.14)},
		{"hello", StringValue("hello")},
		{"TRUE", StringValue("TRUE")}, // bool parsing is exact
		{"", StringValue("")},
		{"[broken", StringValue("[broken")},
		{"{not json}", StringValue("{not json}")},
	}
	for _, tc := range cases {
		if got := ParseScalar(tc.raw); !got.Equal(tc.want) {
			t.Errorf("ParseScalar(%q) = %s, want %s", tc.raw, got, tc.want)
		}
	}
}

func TestParseScalarStructured(t *testing.T) {
	got := ParseScalar("[1,2,3]")
	if !got.Equal(mustJSON(t, "[1,2,3]")) {
		t.Fatalf("expected sequence, got %s", got)
	}

	got = ParseScalar(`{"host":"db","port":5432}`)
	want := mustJSON(t, `{"host":"db","port":5432}`)
	if !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestParseScalarNumericCoercion(t *testing.T) {
	// numeric-looking text always becomes a number, even when the target
	// field wants a string; this is the documented trade-off
	if got := ParseScalar("8080"); got.Kind() != KindNumber || !got.IsInt() {
		t.Fatalf("expected integer, got %s", got)
	}
	if got := ParseScalar("1e3"); got.Kind() != KindNumber || got.IsInt() {
		t.Fatalf("expected float, got %s", got)
	}
}
