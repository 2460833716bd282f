package leads

import "errors"

var (
	// ErrBotCheck is returned when the bot-protection challenge fails.
	ErrBotCheck = errors.New("bot check failed")

	// ErrDelivery is returned when the enquiry email could not be sent.
	ErrDelivery = errors.New("delivery failed")

	// ErrStorage is returned when a subscriber could not be stored.
	ErrStorage = errors.New("storage failed")

	// ErrNewsletterDisabled is returned when no subscriber store is configured.
	ErrNewsletterDisabled = errors.New("newsletter disabled")
)
