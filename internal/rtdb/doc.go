// Package rtdb decodes Firebase Realtime Database trigger events delivered as
// CloudEvents and provides helpers for the loosely typed values stored in the
// database.
package rtdb
