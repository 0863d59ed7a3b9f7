// File: internal/domain/user_test.go
package domain

import "testing"

func TestAvatarLetters(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"two words", "Alex Johnson", "AJ"},
		{"three words uses first two", "Anna Maria Lopez", "AM"},
		{"single word", "alex", "AL"},
		{"single short word", "x", "X"},
		{"lowercase pair", "jamie lee", "JL"},
		{"extra spaces", "  Sam   Carter  ", "SC"},
		{"empty", "", "??"},
		{"only spaces", "   ", "??"},
		{"multibyte", "Élodie Durand", "ÉD"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := AvatarLetters(tc.in); got != tc.want {
				t.Errorf("AvatarLetters(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestSetAndCheckPassword(t *testing.T) {
	var u User
	if err := u.SetPassword("short"); err == nil {
		t.Fatal("expected error for password under 6 characters")
	}

	if err := u.SetPassword("alex123"); err != nil {
		t.Fatalf("SetPassword failed: %v", err)
	}
	if u.PasswordHash == "alex123" {
		t.Fatal("password stored as plaintext")
	}
	if err := u.CheckPassword("alex123"); err != nil {
		t.Errorf("CheckPassword rejected the correct password: %v", err)
	}
	if err := u.CheckPassword("wrong99"); err == nil {
		t.Error("CheckPassword accepted a wrong password")
	}
}

func TestMatchesQuery(t *testing.T) {
	u := User{
		Username:    "maria_s",
		DisplayName: "Maria Silva",
		Country:     "Portugal",
		Bio:         "Coffee and code",
	}

	cases := []struct {
		query string
		want  bool
	}{
		{"maria", true},
		{"MARIA", true},
		{"silva", true},
		{"portu", true},
		{"coffee", true},
		{"  silva  ", true},
		{"", false},
		{"   ", false},
		{"nobody", false},
	}

	for _, tc := range cases {
		if got := u.MatchesQuery(tc.query); got != tc.want {
			t.Errorf("MatchesQuery(%q) = %v, want %v", tc.query, got, tc.want)
		}
	}
}
