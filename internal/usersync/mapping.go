package usersync

import (
	"strings"

	"github.com/focusnest/webhook-service/internal/clerk"
)

func userFromClerk(data clerk.UserData) User {
	u := User{
		ID:    data.ID,
		Email: primaryEmail(data.EmailAddresses),
		Name:  displayName(data.FirstName, data.LastName),
	}
	if data.ImageURL != nil {
		u.ImageURL = *data.ImageURL
	}
	return u
}

func updateFromClerk(data clerk.UserData) UserUpdate {
	update := UserUpdate{Name: displayName(data.FirstName, data.LastName)}
	if email := primaryEmail(data.EmailAddresses); email != "" {
		update.Email = &email
	}
	// An explicit "" is written through; only a missing or null image_url is left alone.
	if data.ImageURL != nil {
		imageURL := *data.ImageURL
		update.ImageURL = &imageURL
	}
	return update
}

// primaryEmail takes the first address in Clerk's list; Clerk's primary_email_address_id is ignored.
func primaryEmail(addresses []clerk.EmailAddress) string {
	if len(addresses) == 0 {
		return ""
	}
	return addresses[0].EmailAddress
}

func displayName(first, last string) string {
	return strings.TrimSpace(first + " " + last)
}
