package validation

import "testing"

func TestPhoneNormalization(t *testing.T) {
	cases := map[string]string{
		"09121234567":    "+989121234567",
		"9121234567":     "+989121234567",
		"+989121234567":  "+989121234567",
		"0912 123-4567":  "+989121234567",
		"۰۹۱۲۱۲۳۴۵۶۷":    "+989121234567",
		"(0912) 1234567": "+989121234567",
	}

	for raw, want := range cases {
		got, ferr := Phone(raw)
		if ferr != nil {
			t.Errorf("Phone(%q) rejected: %v", raw, ferr)
			continue
		}
		if got != want {
			t.Errorf("Phone(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestPhoneIdempotent(t *testing.T) {
	normalized, ferr := Phone("09121234567")
	if ferr != nil {
		t.Fatalf("Phone rejected valid input: %v", ferr)
	}
	again, ferr := Phone(normalized)
	if ferr != nil {
		t.Fatalf("Phone rejected its own output %q: %v", normalized, ferr)
	}
	if again != normalized {
		t.Errorf("Phone not idempotent: %q -> %q", normalized, again)
	}
}

func TestPhoneRejected(t *testing.T) {
	for _, raw := range []string{"", "1234", "0812123456789", "+1 555 0100", "شماره"} {
		if _, ferr := Phone(raw); ferr == nil {
			t.Errorf("Phone(%q) accepted, want rejection", raw)
		}
	}
}

func TestNameNormalization(t *testing.T) {
	got, ferr := Name(FieldFirstName, "  علی   رضا ")
	if ferr != nil {
		t.Fatalf("Name rejected valid input: %v", ferr)
	}
	if got != "علی رضا" {
		t.Errorf("Name = %q, want collapsed whitespace", got)
	}

	// Already normalized input must pass through unchanged.
	again, ferr := Name(FieldFirstName, got)
	if ferr != nil {
		t.Fatalf("Name rejected its own output: %v", ferr)
	}
	if again != got {
		t.Errorf("Name not idempotent: %q -> %q", got, again)
	}
}

func TestNameRejected(t *testing.T) {
	cases := []struct {
		raw  string
		code Code
	}{
		{"", CodeInvalidFormat},
		{"ع", CodeOutOfRange},
		{"Ali", CodeInvalidFormat},
		{"علی123", CodeInvalidFormat},
		{"<script>", CodeInvalidFormat},
	}
	for _, tc := range cases {
		_, ferr := Name(FieldFirstName, tc.raw)
		if ferr == nil {
			t.Errorf("Name(%q) accepted, want rejection", tc.raw)
			continue
		}
		if ferr.Code != tc.code {
			t.Errorf("Name(%q) code = %s, want %s", tc.raw, ferr.Code, tc.code)
		}
	}
}

func TestGradeUnknownMember(t *testing.T) {
	if _, ferr := Grade("یازدهم"); ferr != nil {
		t.Errorf("Grade rejected valid member: %v", ferr)
	}

	_, ferr := Grade("yazdahom")
	if ferr == nil {
		t.Fatal("Grade accepted unknown member")
	}
	if ferr.Code != CodeUnknownEnumMember {
		t.Errorf("Grade code = %s, want %s", ferr.Code, CodeUnknownEnumMember)
	}
}

func TestCityDependsOnProvince(t *testing.T) {
	if _, ferr := City("مشهد", "خراسان رضوی"); ferr != nil {
		t.Errorf("City rejected valid pair: %v", ferr)
	}

	_, ferr := City("مشهد", "تهران")
	if ferr == nil {
		t.Fatal("City accepted city outside its province")
	}
	if ferr.Code != CodeInconsistentDependency {
		t.Errorf("City code = %s, want %s", ferr.Code, CodeInconsistentDependency)
	}
}

func TestEveryProvinceHasCities(t *testing.T) {
	for _, p := range Provinces {
		if len(CitiesByProvince[p]) == 0 {
			t.Errorf("province %q has no cities", p)
		}
	}
}
