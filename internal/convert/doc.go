// Package convert runs a backup conversion end to end.
//
// The pipeline is:
//
//	open archive -> decode payload -> check version -> normalize entries
//	-> load and compile template -> prepare output directories
//	-> for each entry: skip-empty check, copy media, render, write
//
// Everything up to the per-entry loop is fatal: a failure there returns an
// error and nothing is written. Inside the loop, a failing entry is
// recorded in the Report and the batch continues.
package convert
