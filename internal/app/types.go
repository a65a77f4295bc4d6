package app

// Event represents a single calendar event (workshop, training or evenement)
type Event struct {
	ID           string `json:"id"`
	Titel        string `json:"titel"`
	Beschrijving string `json:"beschrijving"`
	Datum        string `json:"datum"`
	Locatie      string `json:"locatie"`
	Afbeelding   string `json:"afbeelding"`
	Actief       bool   `json:"actief"`
}

// NewEventInput is the payload for creating an event. Actief is a pointer
// so a missing value can default to true.
type NewEventInput struct {
	Type         string `json:"type"`
	Titel        string `json:"titel"`
	Beschrijving string `json:"beschrijving"`
	Datum        string `json:"datum"`
	Locatie      string `json:"locatie"`
	Afbeelding   string `json:"afbeelding"`
	Actief       *bool  `json:"actief"`
}

// EventPatch carries a partial update. Nil fields are left untouched, so
// an explicit "actief": false is distinguishable from an omitted one.
type EventPatch struct {
	Titel        *string `json:"titel"`
	Beschrijving *string `json:"beschrijving"`
	Datum        *string `json:"datum"`
	Locatie      *string `json:"locatie"`
	Afbeelding   *string `json:"afbeelding"`
	Actief       *bool   `json:"actief"`
}

// AllEvents groups the three category lists under their Dutch plural keys,
// the shape the admin panel consumes.
type AllEvents struct {
	Workshops   []Event `json:"workshops"`
	Trainingen  []Event `json:"trainingen"`
	Evenementen []Event `json:"evenementen"`
}
