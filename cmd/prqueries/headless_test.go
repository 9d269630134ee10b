//go:build !ci

package main

const fyneHeadless = false
