// Package logging is the leveled logger used across video-cutter.
//
// Levels are DEBUG, INFO, WARN and ERROR, plus FATAL which exits. The level
// is read once from the environment: DEBUG=true forces debug output,
// otherwise LOG_LEVEL selects it (default info).
package logging
