// Package clipper orchestrates a single clip request.
//
// A request flows through four steps, all inside one scratch directory:
//
//  1. Acquire a fresh scratch directory.
//  2. Resolve the source (upload written to disk, or remote fetch).
//  3. Transcode the requested range to H.264/AAC MP4.
//  4. Read the clip into memory and release the scratch directory.
//
// Every failure is returned as an *Error whose Kind maps to an HTTP status:
//
//	InvalidRequest    -> 400
//	SourceUnavailable -> 400
//	TranscodeError    -> 500
//	Internal          -> 500
//
// Filename derives the attachment name cut_<title>_<start>s-<end>s.mp4
// from the source title and range.
package clipper
