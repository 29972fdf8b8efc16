// Package scoring computes the priority score that biases which items a
// game session draws. Scores grow with the number of recorded mistakes and
// the hours since an item was last played, and never fall below a floor.
//
// All functions are pure: the current time is always passed in.
package scoring
