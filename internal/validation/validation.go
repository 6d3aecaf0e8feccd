package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// Field names a single piece of registration data.
type Field string

const (
	FieldFirstName     Field = "first_name"
	FieldLastName      Field = "last_name"
	FieldGrade         Field = "grade"
	FieldMajor         Field = "major"
	FieldProvince      Field = "province"
	FieldCity          Field = "city"
	FieldPhone         Field = "phone"
	FieldPaymentStatus Field = "payment_status"
)

// Code classifies why a value was rejected.
type Code string

const (
	CodeInvalidFormat          Code = "invalid_format"
	CodeOutOfRange             Code = "out_of_range"
	CodeUnknownEnumMember      Code = "unknown_enum_member"
	CodeInconsistentDependency Code = "inconsistent_dependency"
)

// FieldError is the typed, recoverable rejection of one input value. Message
// is user-facing Persian text, ready for re-prompting.
type FieldError struct {
	Field   Field
	Code    Code
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Code)
}

const (
	minNameLen = 2
	maxNameLen = 50
)

var phoneShapes = []*regexp.Regexp{
	regexp.MustCompile(`^\+98[0-9]{10}$`),
	regexp.MustCompile(`^09[0-9]{9}$`),
	regexp.MustCompile(`^9[0-9]{9}$`),
	regexp.MustCompile(`^0[0-9]{10}$`),
}

// FoldDigits rewrites Persian and Arabic-Indic digits to their ASCII
// equivalents so phone input typed with a Persian keyboard validates.
func FoldDigits(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= '۰' && r <= '۹':
			return '0' + (r - '۰')
		case r >= '٠' && r <= '٩':
			return '0' + (r - '٠')
		}
		return r
	}, s)
}

// Name checks and normalizes a first or last name. Whitespace is trimmed and
// collapsed; the result must be Persian/Arabic letters, spaces, hyphens or
// zero-width non-joiners within the configured length bounds.
func Name(field Field, raw string) (string, *FieldError) {
	name := strings.Join(strings.Fields(raw), " ")
	if name == "" {
		return "", &FieldError{field, CodeInvalidFormat, "نام نمی‌تواند خالی باشد."}
	}

	runes := []rune(name)
	if len(runes) < minNameLen {
		return "", &FieldError{field, CodeOutOfRange,
			fmt.Sprintf("نام باید حداقل %d حرف باشد.", minNameLen)}
	}
	if len(runes) > maxNameLen {
		return "", &FieldError{field, CodeOutOfRange,
			fmt.Sprintf("نام نمی‌تواند بیشتر از %d حرف باشد.", maxNameLen)}
	}

	for _, r := range runes {
		if !isNameRune(r) {
			return "", &FieldError{field, CodeInvalidFormat,
				"نام باید فقط شامل حروف فارسی باشد."}
		}
	}
	return name, nil
}

func isNameRune(r rune) bool {
	if r == ' ' || r == '-' || r == '‌' {
		return true
	}
	// Arabic block plus supplements and presentation forms cover Persian
	// letters and combining marks.
	switch {
	case r >= 0x0600 && r <= 0x06FF:
		return unicode.IsLetter(r) || unicode.IsMark(r)
	case r >= 0x0750 && r <= 0x077F,
		r >= 0xFB50 && r <= 0xFDFF,
		r >= 0xFE70 && r <= 0xFEFF:
		return true
	}
	return false
}

// Phone checks an Iranian mobile number in any of the accepted raw shapes and
// rewrites it to the canonical +98 form. Already-canonical input passes
// through unchanged.
func Phone(raw string) (string, *FieldError) {
	phone := FoldDigits(strings.TrimSpace(raw))
	phone = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')':
			return -1
		}
		return r
	}, phone)

	if phone == "" {
		return "", &FieldError{FieldPhone, CodeInvalidFormat, "شماره تلفن نمی‌تواند خالی باشد."}
	}

	for _, shape := range phoneShapes {
		if shape.MatchString(phone) {
			return normalizePhone(phone), nil
		}
	}
	return "", &FieldError{FieldPhone, CodeInvalidFormat,
		"شماره تلفن نامعتبر است. لطفاً شماره معتبر وارد کنید (مثال: 09121234567)"}
}

func normalizePhone(phone string) string {
	switch {
	case strings.HasPrefix(phone, "+98"):
		return phone
	case strings.HasPrefix(phone, "0"):
		return "+98" + phone[1:]
	default: // bare 9#########
		return "+98" + phone
	}
}

// Grade checks membership in the fixed grade set.
func Grade(raw string) (string, *FieldError) {
	return member(FieldGrade, strings.TrimSpace(raw), Grades, "پایه تحصیلی نامعتبر است.")
}

// Major checks membership in the fixed field-of-study set.
func Major(raw string) (string, *FieldError) {
	return member(FieldMajor, strings.TrimSpace(raw), Majors, "رشته تحصیلی نامعتبر است.")
}

// Province checks membership in the fixed province set.
func Province(raw string) (string, *FieldError) {
	return member(FieldProvince, strings.TrimSpace(raw), Provinces, "استان نامعتبر است.")
}

// City checks that the city belongs to the previously chosen province.
func City(raw, province string) (string, *FieldError) {
	city := strings.TrimSpace(raw)
	if city == "" {
		return "", &FieldError{FieldCity, CodeUnknownEnumMember, "شهر باید انتخاب شود."}
	}
	for _, c := range CitiesByProvince[province] {
		if c == city {
			return city, nil
		}
	}
	return "", &FieldError{FieldCity, CodeInconsistentDependency,
		"شهر نامعتبر برای استان انتخاب شده است."}
}

// CityValidFor reports whether city is an allowed choice for province.
func CityValidFor(city, province string) bool {
	_, err := City(city, province)
	return err == nil
}

func member(field Field, value string, set []string, msg string) (string, *FieldError) {
	for _, v := range set {
		if v == value {
			return value, nil
		}
	}
	return "", &FieldError{field, CodeUnknownEnumMember, msg}
}
