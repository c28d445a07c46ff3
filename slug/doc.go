// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package slug builds the public identifiers used in feedback links.

# Shape

A slug is the normalized client name plus a random suffix:

	acme-corp-x7k2p9

Normalize lowercases, transliterates Dutch and other diacritics to ASCII
("Ë" → "e", "ĳ" → "ij"), spells "&" as "en", and collapses everything else
into single hyphens. Names without any usable character fall back to
"formulier".

# Uniqueness

Generator checks each candidate through an ExistsFunc, normally backed by
the form store:

	gen := slug.NewGenerator(store.SlugExists)
	s, err := gen.Generate(ctx, "Acme Corp")

A collision draws a fresh suffix. After MaxAttempts (3) collisions
Generate returns ErrSlugGenerationExhausted. The generator only reads;
the slug is claimed when the form row is inserted.
*/
package slug
