package model

import "testing"

func userWithRole(role string) User {
	return User{Username: "t", Name: "T", Role: role}
}

func TestIsAdminOnValue(t *testing.T) {
	// Called directly on a returned value, the way the request handlers do.
	if !userWithRole(RoleAdmin).IsAdmin() {
		t.Fatal("admin role not recognized")
	}
	if userWithRole(RoleUser).IsAdmin() {
		t.Fatal("user role treated as admin")
	}
	if (User{}).IsAdmin() {
		t.Fatal("zero-value user treated as admin")
	}
}

func TestPasswordRoundTrip(t *testing.T) {
	var u User
	if err := u.SetPassword("s3cret"); err != nil {
		t.Fatalf("set password: %v", err)
	}
	if !u.CheckPassword("s3cret") {
		t.Fatal("correct password rejected")
	}
	if u.CheckPassword("wrong") {
		t.Fatal("wrong password accepted")
	}
}
