// Package ssml builds Speech Synthesis Markup Language documents through a
// fluent, append-only builder. It defines the general tag vocabulary
// (prosody, say-as, roles, breaks, languages, marks) and the closed value
// sets for each attribute. Dialect packages narrow this vocabulary by
// supplying their own Rules and by wrapping a Builder.
//
// Builders follow the sticky-error pattern: the first operation that fails
// validation records its error and leaves the output untouched, and every
// later mutating call is skipped until Reset. Build reports that error.
package ssml
