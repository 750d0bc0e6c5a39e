package middleware

import (
	"context"
	"regexp"

	"github.com/aretw0/charter/pkg/domain"
	"github.com/aretw0/charter/pkg/ports"
)

// Mask replaces masked draft values.
const Mask = "***"

// maskable lists the draft fields that hold free text. Counts and amounts are never masked.
var maskable = map[string]func(*domain.Draft) *string{
	domain.FieldBoat:         func(d *domain.Draft) *string { return &d.Boat },
	domain.FieldPier:         func(d *domain.Draft) *string { return &d.Pier },
	domain.FieldCaptainName:  func(d *domain.Draft) *string { return &d.CaptainName },
	domain.FieldCaptainPhone: func(d *domain.Draft) *string { return &d.CaptainPhone },
	domain.FieldHours:        func(d *domain.Draft) *string { return &d.Hours },
	domain.FieldDate:         func(d *domain.Draft) *string { return &d.Date },
	domain.FieldTime:         func(d *domain.Draft) *string { return &d.Time },
	domain.FieldClientName:   func(d *domain.Draft) *string { return &d.ClientName },
}

type piiJournal struct {
	next     ports.Journal
	patterns []*regexp.Regexp
}

// NewPIIMiddleware creates a journal middleware that masks the draft fields
// whose key matches one of the patterns before the booking is recorded.
// The card already went out, so the journal only needs what is left for statistics.
func NewPIIMiddleware(patternStrings []string) JournalMiddleware {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		patterns[i] = regexp.MustCompile(p)
	}
	return func(next ports.Journal) ports.Journal {
		return &piiJournal{next: next, patterns: patterns}
	}
}

// DefaultPIIPatterns masks the client's name and the captain's phone.
var DefaultPIIPatterns = []string{`^client_name$`, `phone`}

func (m *piiJournal) Record(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	// Work on a copy so the caller's draft is untouched.
	masked := b
	masked.Draft = b.Draft.Clone()
	maskDraft(&masked.Draft, m.patterns)

	rec, err := m.next.Record(ctx, masked)
	if err != nil {
		return rec, err
	}
	b.ID = rec.ID
	return b, nil
}

func (m *piiJournal) Recent(ctx context.Context, limit int) ([]domain.Booking, error) {
	return m.next.Recent(ctx, limit)
}

func maskDraft(d *domain.Draft, patterns []*regexp.Regexp) {
	for key, field := range maskable {
		for _, p := range patterns {
			if p.MatchString(key) {
				if v := field(d); *v != "" {
					*v = Mask
				}
				break
			}
		}
	}
}
