package phone

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"local mobile", "0987654321", "595987654321"},
		{"local with separators", "0987 111-222", "595987111222"},
		{"international with trunk zero", "595012345678", "59512345678"},
		{"international plus and trunk zero", "+595 0981 123456", "595981123456"},
		{"repeated trunk zeros", "59500981123456", "595981123456"},
		{"already normalized", "595987111222", "595987111222"},
		{"foreign number passes through", "+54 11 5555 0000", "541155550000"},
		{"only symbols", "+() -", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Normalize(tc.in); got != tc.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{"", "0987654321", "595012345678", "5950981", "59500981", "09", "+1 (555) 010-0000", "abc"}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Fatalf("Normalize not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}
