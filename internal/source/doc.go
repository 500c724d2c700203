// Package source resolves the media a clip request refers to.
//
// A request names exactly one of two variants: an Upload sent with the
// request body, or a Remote locator that is handed to a Fetcher (yt-dlp in
// production). New enforces the exactly-one rule. Either variant ends up as
// a file inside the request's scratch directory.
package source
