// Package logger wraps zap for the signing tools:
//   - a global sugared logger writing console lines to stderr,
//   - context helpers (ToContext/FromContext/WithName/WithKV/WithFields),
//   - level parsing and configuration,
//   - leveled helpers (Info, InfoKV, Warnf, ...).
//
// Pipeline stages receive a context and log through the logger stored in it,
// so every line of a signing run carries its run id and bundle path.
package logger
