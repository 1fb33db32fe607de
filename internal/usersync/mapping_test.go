package usersync

import (
	"testing"

	"github.com/focusnest/webhook-service/internal/clerk"
)

func TestDisplayName(t *testing.T) {
	tests := []struct {
		first, last string
		want        string
	}{
		{"Jane", "Doe", "Jane Doe"},
		{"", "", ""},
		{"Jane", "", "Jane"},
		{"", "Doe", "Doe"},
		{" Jane ", " Doe ", "Jane   Doe"},
	}
	for _, tt := range tests {
		if got := displayName(tt.first, tt.last); got != tt.want {
			t.Fatalf("displayName(%q, %q) = %q, want %q", tt.first, tt.last, got, tt.want)
		}
	}
}

func TestUserFromClerkUsesFirstEmail(t *testing.T) {
	u := userFromClerk(clerk.UserData{
		ID: "user_X",
		EmailAddresses: []clerk.EmailAddress{
			{ID: "idn_1", EmailAddress: "a@x.com"},
			{ID: "idn_2", EmailAddress: "b@x.com"},
		},
		ImageURL: strPtr("https://img.clerk.com/x"),
	})

	if u.ID != "user_X" {
		t.Fatalf("expected id to be the clerk id, got %q", u.ID)
	}
	if u.Email != "a@x.com" {
		t.Fatalf("expected first email, got %q", u.Email)
	}
	if u.ImageURL != "https://img.clerk.com/x" {
		t.Fatalf("unexpected image url %q", u.ImageURL)
	}
}

func TestUserFromClerkWithoutEmails(t *testing.T) {
	u := userFromClerk(clerk.UserData{ID: "user_X"})
	if u.Email != "" || u.Name != "" {
		t.Fatalf("expected empty optional fields, got %+v", u)
	}
}

func TestUpdateFromClerkLeavesAbsentFieldsUntouched(t *testing.T) {
	stored := User{ID: "user_X", Email: "old@x.com", Name: "Old", ImageURL: "https://img/old"}

	got := updateFromClerk(clerk.UserData{ID: "user_X", FirstName: "New"}).Apply(stored)
	want := User{ID: "user_X", Email: "old@x.com", Name: "New", ImageURL: "https://img/old"}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}

	got = updateFromClerk(clerk.UserData{
		ID:             "user_X",
		EmailAddresses: []clerk.EmailAddress{{EmailAddress: "new@x.com"}},
		ImageURL:       strPtr("https://img/new"),
	}).Apply(stored)
	want = User{ID: "user_X", Email: "new@x.com", Name: "", ImageURL: "https://img/new"}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func strPtr(s string) *string { return &s }

func TestUpdateFromClerkWritesExplicitEmptyImage(t *testing.T) {
	stored := User{ID: "user_X", Name: "Jane", ImageURL: "https://img/old"}

	got := updateFromClerk(clerk.UserData{ID: "user_X", FirstName: "Jane", ImageURL: strPtr("")}).Apply(stored)
	if got.ImageURL != "" {
		t.Fatalf("expected explicit empty image_url to clear the stored value, got %q", got.ImageURL)
	}

	got = updateFromClerk(clerk.UserData{ID: "user_X", FirstName: "Jane"}).Apply(stored)
	if got.ImageURL != "https://img/old" {
		t.Fatalf("expected missing image_url to keep the stored value, got %q", got.ImageURL)
	}
}
