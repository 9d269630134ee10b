//go:build ci

package main

// Under the ci tag fyne apps use the headless test driver, so the
// preferences backend can run in tests.
const fyneHeadless = true
