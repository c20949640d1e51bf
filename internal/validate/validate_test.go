package validate

import (
	"errors"
	"strings"
	"testing"

	"github.com/barbearia-nativa/bookingd/internal/apperr"
)

func TestEmail(t *testing.T) {
	valid := []string{"joao@example.com", "maria.silva+promo@sub.example.com.br"}
	for _, s := range valid {
		if !Email(s) {
			t.Fatalf("expected %q to be a valid email", s)
		}
	}
	invalid := []string{"", "joao", "joao@", "@example.com", "joao@example", "joao @example.com"}
	for _, s := range invalid {
		if Email(s) {
			t.Fatalf("expected %q to be rejected", s)
		}
	}
}

func TestPhone(t *testing.T) {
	valid := []string{
		"11987654321",
		"(11) 98765-4321",
		"+55 11 98765 4321",
		"5511987654321",
	}
	for _, s := range valid {
		if !Phone(s) {
			t.Fatalf("expected %q to be a valid phone", s)
		}
	}
	invalid := []string{
		"",
		"12345",
		"11887654321",     // second block must start with 9
		"(11) 8765-4321",  // landline, eight digits
		"+1 555 123 4567", // wrong country code
	}
	for _, s := range invalid {
		if Phone(s) {
			t.Fatalf("expected %q to be rejected", s)
		}
	}
}

func TestDate(t *testing.T) {
	if !Date("2024-06-10") {
		t.Fatal("expected 2024-06-10 to be valid")
	}
	for _, s := range []string{"", "10/06/2024", "2024-13-01", "2024-02-30", "2024-6-1"} {
		if Date(s) {
			t.Fatalf("expected %q to be rejected", s)
		}
	}
}

func TestTimeOfDay(t *testing.T) {
	for _, s := range []string{"09:00", "9:00", "23:59", "00:00"} {
		if !TimeOfDay(s) {
			t.Fatalf("expected %q to be valid", s)
		}
	}
	for _, s := range []string{"", "24:00", "12:60", "noon", "12h30", "12:3"} {
		if TimeOfDay(s) {
			t.Fatalf("expected %q to be rejected", s)
		}
	}
}

func TestNormalizeTime(t *testing.T) {
	if got := NormalizeTime("9:30"); got != "09:30" {
		t.Fatalf("expected 09:30, got %s", got)
	}
	if got := NormalizeTime("09:30"); got != "09:30" {
		t.Fatalf("expected 09:30 unchanged, got %s", got)
	}
}

func TestViolations_CollectsAllFields(t *testing.T) {
	var v Violations
	v.Add("name", "is required")
	v.Add("email", "is not a valid email address")

	err := v.Err()
	var verr *apperr.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Fields) != 2 {
		t.Fatalf("expected 2 field errors, got %d", len(verr.Fields))
	}
	if verr.Fields[0].Field != "name" || verr.Fields[1].Field != "email" {
		t.Fatalf("unexpected fields: %+v", verr.Fields)
	}
}

func TestViolations_EmptyIsNil(t *testing.T) {
	var v Violations
	if err := v.Err(); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestWithinLimit_CountsRunesNotBytes(t *testing.T) {
	// 100 accented characters: 200 bytes but exactly at the limit.
	s := strings.Repeat("ã", 100)
	if !WithinLimit(s, 100) {
		t.Fatal("expected 100 accented characters to fit a limit of 100")
	}
	if WithinLimit(s+"x", 100) {
		t.Fatal("expected 101 characters to exceed a limit of 100")
	}
}

func TestName_AccentedAtLimit(t *testing.T) {
	var v Violations
	Name(&v, "name", strings.Repeat("é", MaxNameLength))
	if v.Err() != nil {
		t.Fatalf("accented name at the limit rejected: %v", v.Err())
	}
}

func TestName(t *testing.T) {
	var v Violations
	got := Name(&v, "name", "  João  ")
	if got != "João" {
		t.Fatalf("expected trimmed name, got %q", got)
	}
	if v.Err() != nil {
		t.Fatalf("unexpected violations: %v", v.Err())
	}

	var v2 Violations
	Name(&v2, "name", "   ")
	if v2.Err() == nil {
		t.Fatal("expected violation for blank name")
	}
}
