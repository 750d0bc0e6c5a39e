package domain

import "strconv"

// Draft field keys, shared by the summary, the journal and the JSON API.
const (
	FieldBoat             = "boat"
	FieldPier             = "pier"
	FieldCaptainName      = "captain_name"
	FieldCaptainPhone     = "captain_phone"
	FieldHours            = "hours"
	FieldDate             = "date"
	FieldTime             = "time"
	FieldGuests           = "guests_count"
	FieldClientName       = "client_name"
	FieldRemainingPayment = "remaining_payment"
)

// RequiredFields lists the fields a Draft needs before it can be rendered.
var RequiredFields = []string{
	FieldBoat,
	FieldPier,
	FieldCaptainName,
	FieldCaptainPhone,
	FieldHours,
	FieldDate,
	FieldTime,
	FieldGuests,
	FieldClientName,
	FieldRemainingPayment,
}

// Draft is the booking record accumulated by one session.
// A field is set if and only if the step that collects it has been accepted.
type Draft struct {
	Boat             string `json:"boat,omitempty"`
	Pier             string `json:"pier,omitempty"`
	CaptainName      string `json:"captain_name,omitempty"`
	CaptainPhone     string `json:"captain_phone,omitempty"`
	Hours            string `json:"hours,omitempty"`
	Date             string `json:"date,omitempty"`
	Time             string `json:"time,omitempty"`
	Guests           *int   `json:"guests_count,omitempty"`
	ClientName       string `json:"client_name,omitempty"`
	RemainingPayment *int   `json:"remaining_payment,omitempty"`
}

// Fields returns the populated fields as strings keyed by the Field* constants.
func (d Draft) Fields() map[string]string {
	out := make(map[string]string)
	put := func(k, v string) {
		if v != "" {
			out[k] = v
		}
	}
	put(FieldBoat, d.Boat)
	put(FieldPier, d.Pier)
	put(FieldCaptainName, d.CaptainName)
	put(FieldCaptainPhone, d.CaptainPhone)
	put(FieldHours, d.Hours)
	put(FieldDate, d.Date)
	put(FieldTime, d.Time)
	if d.Guests != nil {
		out[FieldGuests] = strconv.Itoa(*d.Guests)
	}
	put(FieldClientName, d.ClientName)
	if d.RemainingPayment != nil {
		out[FieldRemainingPayment] = strconv.Itoa(*d.RemainingPayment)
	}
	return out
}

// Missing returns the required fields that are not set yet, in canonical order.
func (d Draft) Missing() []string {
	fields := d.Fields()
	var missing []string
	for _, k := range RequiredFields {
		if _, ok := fields[k]; !ok {
			missing = append(missing, k)
		}
	}
	return missing
}

// Complete reports whether every field is populated.
func (d Draft) Complete() bool {
	return len(d.Missing()) == 0
}

// Clone returns a deep copy, so the caller can mutate it without touching d.
func (d Draft) Clone() Draft {
	out := d
	if d.Guests != nil {
		g := *d.Guests
		out.Guests = &g
	}
	if d.RemainingPayment != nil {
		p := *d.RemainingPayment
		out.RemainingPayment = &p
	}
	return out
}
