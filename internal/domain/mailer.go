package domain

import "context"

// ListingSubmittedEmailData carries the fields rendered into the
// listing-submitted confirmation email.
type ListingSubmittedEmailData struct {
	Email        string
	PartnerName  string
	ListingTitle string
	ListingID    string
}

// Mailer sends transactional email. Sending is best-effort: callers log
// failures and continue.
type Mailer interface {
	SendListingSubmitted(ctx context.Context, data *ListingSubmittedEmailData) error
}
