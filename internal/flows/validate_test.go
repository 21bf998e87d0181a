package flows

import "testing"

func TestPatterns(t *testing.T) {
	cases := []struct {
		pattern string
		input   string
		want    bool
	}{
		{"name", "Thabo Mokoena", true},
		{"name", "Al", true},
		{"name", "A", false},
		{"name", "Thabo99", false},
		{"name", "", false},

		{"idNumber", "8001015009087", true},
		{"idNumber", "800101500908", false},
		{"idNumber", "80010150090871", false},
		{"idNumber", "80010150090a7", false},

		{"accountNumber", "1234567890", true},
		{"accountNumber", "1234567890123456", true},
		{"accountNumber", "123456789", false},
		{"accountNumber", "12345678901234567", false},

		{"swift", "SBZAZAJJ", true},
		{"swift", "SBZAZAJJXXX", true},
		{"swift", "sbzazajj", false},
		{"swift", "SBZAZAJ", false},
		{"swift", "SBZAZAJJXX", false},
	}

	patterns := map[string]func(string) bool{
		"name":          namePattern.MatchString,
		"idNumber":      idNumberPattern.MatchString,
		"accountNumber": accountNumberPattern.MatchString,
		"swift":         swiftPattern.MatchString,
	}

	for _, tc := range cases {
		if got := patterns[tc.pattern](tc.input); got != tc.want {
			t.Errorf("%s(%q) = %v, want %v", tc.pattern, tc.input, got, tc.want)
		}
	}
}

func TestLocalBanks(t *testing.T) {
	for _, bank := range []string{"Absa", "FNB", "Standard Bank", "Capitec Bank", "TymeBank"} {
		if !localBanks[bank] {
			t.Errorf("bank %q missing from whitelist", bank)
		}
	}
	for _, bank := range []string{"", "standard bank", "Barclays", "HSBC"} {
		if localBanks[bank] {
			t.Errorf("bank %q accepted, want rejected", bank)
		}
	}
}

func TestPasswordPolicy(t *testing.T) {
	cases := []struct {
		password string
		minLen   int
		want     bool
	}{
		{"Aa1!aaaa", 8, true},
		{"Aa1$aaaa", 8, true},
		{"Str0ng&Password?", 12, true},
		{"Aa1!aaa", 8, false},
		{"Aa1#aaaa", 8, false},
		{"Aa1^aaaa", 8, false},
		{"aa1!aaaa", 8, false},
		{"AA1!AAAA", 8, false},
		{"Aaa!aaaa", 8, false},
		{"Aa1aaaaa", 8, false},
		{"Aa1!aaaaaaa", 12, false},
		{"Password1 space", 8, false},
	}
	for _, tc := range cases {
		if got := passwordPolicyOK(tc.password, tc.minLen); got != tc.want {
			t.Errorf("passwordPolicyOK(%q, %d) = %v, want %v", tc.password, tc.minLen, got, tc.want)
		}
	}
}

func TestDigitsOnly(t *testing.T) {
	cases := []struct{ in, want string }{
		{"1234567890", "1234567890"},
		{" 1234 5678 90 ", "1234567890"},
		{"12-34-56", "123456"},
		{"abc", ""},
	}
	for _, tc := range cases {
		if got := digitsOnly(tc.in); got != tc.want {
			t.Errorf("digitsOnly(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := normalizeEmail("  Thabo@Example.COM "); got != "thabo@example.com" {
		t.Errorf("normalizeEmail = %q", got)
	}
}

func TestMaskAccountNumber(t *testing.T) {
	cases := []struct{ in, want string }{
		{"1234567890", "12******"},
		{"10111026372637", "10******"},
		{"1", "******"},
		{"", "******"},
	}
	for _, tc := range cases {
		if got := maskAccountNumber(tc.in); got != tc.want {
			t.Errorf("maskAccountNumber(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCheckInputRegisterTags(t *testing.T) {
	valid := RegisterInput{
		Name:            "Thabo Mokoena",
		IDNumber:        "8001015009087",
		AccountNumber:   "1234567890",
		Email:           "thabo@example.com",
		Password:        "Str0ng&Pass?",
		ConfirmPassword: "Str0ng&Pass?",
	}
	if err := checkInput(valid); err != nil {
		t.Fatalf("valid input rejected: %v", err)
	}

	bad := valid
	bad.IDNumber = "not-digits"
	if err := checkInput(bad); err == nil {
		t.Fatal("invalid idNumber accepted")
	}

	bad = valid
	bad.Email = "not-an-email"
	if err := checkInput(bad); err == nil {
		t.Fatal("invalid email accepted")
	}
}
