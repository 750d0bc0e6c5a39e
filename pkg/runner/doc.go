/*
Package runner drives the booking wizard from a console.

It is the third transport next to Telegram and HTTP: useful for operators who
want to issue a card without a phone, and for end-to-end checks in CI.

# Key Components

  - Runner: the read, handle, print loop for one user.
  - IOHandler: decouples how lines are read and actions are shown.
  - TextHandler: interactive console; keyboards are shown as numbered options.
  - JSONHandler: JSON-Lines mode for scripts.
  - SanitizeInput: size, encoding and control-character policy shared with
    the other transports.

# Usage

	r := runner.NewRunner(
		runner.WithUserID("console"),
		runner.WithInputHandler(runner.NewTextHandler(os.Stdin, os.Stdout)),
	)
	if err := r.Run(ctx, engine); err != nil {
		log.Fatal(err)
	}

Typing the number of a button presses it. Lines starting with a slash are
commands (/start, /cancel); "exit" or "quit" leaves the loop.
*/
package runner
