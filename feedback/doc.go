// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package feedback records a recipient's feedback on a form.

Each entry carries free text and an optional rating (goed, kan_beter,
slecht). Ratings are stored as a label prefix on the text:

	[Kan beter] De aanhef is te formeel

Entries that end up empty are dropped. Submit then runs one transaction
that completes the form, stores the responses and queues the completion
notifications for the notify dispatcher.
*/
package feedback
