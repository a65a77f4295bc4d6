package app

import "errors"

// Domain errors.
var (
	ErrInvalidCategory = errors.New("onbekend event type")
	ErrMissingFields   = errors.New("verplichte velden ontbreken")
	ErrMissingID       = errors.New("type en id zijn verplicht")
	ErrEventNotFound   = errors.New("event niet gevonden")
)

// User-facing error messages (Dutch, matching the public site).
const (
	MsgAllFieldsRequired = "Alle velden zijn verplicht"
	MsgTypeIDRequired    = "Type en ID zijn verplicht"
	MsgEventNotFound     = "Event niet gevonden"
	MsgInvalidType       = "Onbekend event type"
	MsgWrongPassword     = "Onjuist wachtwoord"
	MsgNotAuthenticated  = "Niet ingelogd"
	MsgGenericError      = "Er is iets misgegaan"
	MsgInvalidEmail      = "Ongeldig e-mailadres"
	MsgUploadsNeedBlob   = "Uploads vereisen geconfigureerde blob-opslag"
)
