// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package notify delivers completion notifications from the outbox.

A completed form leaves one outbox row per channel. The Dispatcher picks
up due rows, hands them to the matching Sender and records the outcome:

	d := notify.NewDispatcher(store.New(db), map[string]notify.Sender{
		models.ChannelWebhook: notify.NewWebhookSender(),
	}, cfg.DispatchInterval, cfg.DispatchMaxAttempts)
	go d.Run(ctx)

Failures are retried after 30s, 1m, 2m, ... up to one hour between
attempts. Once the attempt budget is spent the row keeps its last error
and is no longer scheduled.
*/
package notify
