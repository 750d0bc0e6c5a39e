/*
Package telegram connects the booking wizard to the Telegram Bot API.

Bot long-polls updates, turns them into domain events, passes them to a
ports.EventHandler and delivers the returned actions through Sender.
Callback queries are acknowledged before they are handled so the client
stops its loading spinner even when handling is slow.

A photo that cannot be uploaded (missing asset, rejected file) is replaced by
a text message carrying the same caption and buttons, so a broken catalog
image never blocks a booking.
*/
package telegram
