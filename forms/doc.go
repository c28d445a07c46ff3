// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package forms creates and reads feedback forms.

A form holds one to five email variants per enabled stage: eerste_mail is
always present, opvolgmail_1 and opvolgmail_2 are optional and the second
follow-up needs the first. Create validates the request, picks a unique
slug and writes the form and its variants in a single transaction.

	svc := forms.NewService(store.New(db), cache.Noop{}, cfg.SiteURL)
	form, err := svc.Create(ctx, &req)
	var verr *forms.ValidationError
	if errors.As(err, &verr) {
		// 422 with verr.Fields
	}

Dashboard includes every feedback response; Public only does so once the
form is completed. Only completed public views are cached; active views
are always read from the store.
*/
package forms
