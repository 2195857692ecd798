//go:build !windows

// Package main provides stubs for the Windows service entry points on
// other platforms, where the server always runs in the foreground.
package main

// RunAsService reports false: outside Windows the server runs normally
// and shutdown is driven by OS signals.
func RunAsService() (bool, error) {
	return false, nil
}

// HandleServiceCommand reports false: service management verbs only exist
// on Windows.
func HandleServiceCommand(args []string) bool {
	return false
}
