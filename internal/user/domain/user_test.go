package domain

import "testing"

func TestUser_Validate(t *testing.T) {
	tests := []struct {
		name    string
		user    User
		wantErr bool
	}{
		{"valid", User{ID: "u1", Email: "a@b.c", RoleID: 2}, false},
		{"no id", User{Email: "a@b.c", RoleID: 2}, true},
		{"no email", User{ID: "u1", RoleID: 2}, true},
		{"no role", User{ID: "u1", Email: "a@b.c"}, true},
	}
	for _, tt := range tests {
		if err := tt.user.Validate(); (err != nil) != tt.wantErr {
			t.Errorf("%s: Validate() error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
	}
}

func TestUser_ProfileOmitsHash(t *testing.T) {
	u := User{ID: "u1", Email: "a@b.c", PasswordHash: "secret", FirstName: "A", LastName: "B", RoleID: 2}
	p := u.Profile()
	if p != (Profile{ID: "u1", Email: "a@b.c", FirstName: "A", LastName: "B"}) {
		t.Errorf("Profile() = %+v", p)
	}
}
