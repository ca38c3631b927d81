//go:build windows

package main

import (
	"os"
	"os/signal"
)

func notifySignals(sigChan chan os.Signal) {
	// Windows only delivers os.Interrupt (Ctrl+C / Ctrl+Break).
	signal.Notify(sigChan, os.Interrupt)
}
