// Package match scores string similarity and picks the best candidate name.
//
// Scorers never normalize their input. Callers that want case or punctuation
// insensitive matching run Normalize on both sides first.
package match
