// Package fetcher retrieves remote videos with yt-dlp.
//
// Hosts sometimes reject the first request as automated traffic, so a fetch
// walks an ordered list of Strategy values (cookie jars, headers, quality
// targets, extractor arguments). Every attempt must produce both metadata
// and a video file; anything less is abandoned and the next strategy runs.
// The list is configuration: DefaultStrategies holds the built-in order and
// LoadStrategies reads a replacement from YAML.
package fetcher
