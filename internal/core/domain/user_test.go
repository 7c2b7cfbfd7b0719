package domain

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseRole(t *testing.T) {
	cases := []struct {
		in      string
		want    Role
		wantErr bool
	}{
		{in: "", want: RoleUser},
		{in: "USER", want: RoleUser},
		{in: "ADMIN", want: RoleAdmin},
		{in: "admin", wantErr: true},
		{in: "SUPERUSER", wantErr: true},
	}

	for _, tc := range cases {
		got, err := ParseRole(tc.in)
		if tc.wantErr {
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("ParseRole(%q): expected validation error, got %v", tc.in, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseRole(%q): unexpected error %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseRole(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestValidationError_MatchesSentinel(t *testing.T) {
	err := NewValidationError("missing email or password")
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected errors.Is(err, ErrValidation)")
	}
	if err.Error() != "missing email or password" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
	if errors.Is(err, ErrUserExists) {
		t.Fatalf("validation error must not match ErrUserExists")
	}
}

func TestUserView_EmptyNameIsNull(t *testing.T) {
	cases := map[string]string{
		"":      `{"id":"u1","email":"a@example.com","name":null,"role":"USER"}`,
		"Alice": `{"id":"u1","email":"a@example.com","name":"Alice","role":"USER"}`,
	}
	for name, want := range cases {
		u := &User{ID: "u1", Email: "a@example.com", Name: name, Role: RoleUser}
		got, err := json.Marshal(u.View())
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if string(got) != want {
			t.Fatalf("name %q: got %s, want %s", name, got, want)
		}
	}
}
