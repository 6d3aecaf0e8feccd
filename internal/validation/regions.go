package validation

// Fixed selection sets offered by the registration keyboards. City lists are
// keyed by province; a city is only valid together with its province.

var Grades = []string{"دهم", "یازدهم", "دوازدهم"}

var Majors = []string{"ریاضی", "تجربی", "انسانی", "هنر"}

var Provinces = []string{
	"تهران", "خراسان رضوی", "اصفهان", "فارس", "آذربایجان شرقی",
	"مازندران", "گیلان", "خوزستان", "قم", "البرز", "سایر",
}

var CitiesByProvince = map[string][]string{
	"تهران":          {"تهران", "شهریار", "ورامین", "دماوند", "فیروزکوه"},
	"خراسان رضوی":    {"مشهد", "نیشابور", "سبزوار", "تربت حیدریه", "کاشمر"},
	"اصفهان":         {"اصفهان", "کاشان", "نجف‌آباد", "خمینی‌شهر", "شاهین‌شهر"},
	"فارس":           {"شیراز", "مرودشت", "جهرم", "فسا", "کازرون"},
	"آذربایجان شرقی": {"تبریز", "مراغه", "میانه", "اهر", "بناب"},
	"مازندران":       {"ساری", "بابل", "آمل", "قائم‌شهر", "نوشهر"},
	"گیلان":          {"رشت", "انزلی", "لاهیجان", "آستارا", "تالش"},
	"خوزستان":        {"اهواز", "دزفول", "ماهشهر", "ایذه", "شوشتر"},
	"قم":             {"قم"},
	"البرز":          {"کرج", "فردیس", "محمدشهر", "ماهدشت", "اشتهارد"},
	"سایر":           {"سایر"},
}
