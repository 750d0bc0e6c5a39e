/*
Package charter is a chat wizard that collects a boat rental booking one
question at a time and delivers a filled-in PDF card.

The wizard is a deterministic state machine over a per-user session: given
the same session and the same event, the next session and the outbound
actions are always the same. Transports (Telegram, the console runner, the
HTTP API) only translate their native updates into domain.Event values and
send the resulting domain.Action values back.

# Concept

A session walks the steps boat, captain, hours, date, time, pier, guests,
client and payment. Steps whose value the catalog already provides (pier,
a single captain) are skipped. Every answer is validated; a rejected answer
leaves the session untouched and re-asks the question. Once the draft is
complete the Render Gateway produces the card. The session stays at the
final step until the transport reports the card as sent (Engine.Delivered);
only then is it cleared and the booking written to the journal.

# Usage

	cat, err := catalog.Load("boats.json", domain.CatalogFull)
	if err != nil {
		log.Fatal(err)
	}
	eng, err := charter.New(cat, pdf.New("form.png", pdf.WithPhotosDir("photos")),
		charter.WithAdmins("1001"),
	)
	if err != nil {
		log.Fatal(err)
	}

	actions, err := eng.Handle(ctx, domain.Command("1001", domain.CommandStart))

Handle serializes events of the same user through the session manager, so
transports may dispatch updates concurrently.
*/
package charter
