package model

import "testing"

func TestParseRole(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Role
	}{
		{name: "student", in: "student", want: RoleStudent},
		{name: "instructor", in: "instructor", want: RoleInstructor},
		{name: "admin", in: "admin", want: RoleAdmin},
		{name: "mixed case", in: " Admin ", want: RoleAdmin},
		{name: "empty defaults to student", in: "", want: RoleStudent},
		{name: "unknown defaults to student", in: "superuser", want: RoleStudent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseRole(tt.in); got != tt.want {
				t.Fatalf("ParseRole(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestRoleValid(t *testing.T) {
	for _, r := range []Role{RoleStudent, RoleInstructor, RoleAdmin} {
		if !r.Valid() {
			t.Fatalf("%q should be valid", r)
		}
	}
	if Role("owner").Valid() {
		t.Fatal("unknown role reported valid")
	}
	if Role("").Valid() {
		t.Fatal("empty role reported valid")
	}
}
