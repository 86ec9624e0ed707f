package main

import "log"

// debugMode is set from the --debug flag
var debugMode bool

// debugLog prints only when debug mode is enabled
func debugLog(format string, args ...interface{}) {
	if debugMode {
		log.Printf("DEBUG: "+format, args...)
	}
}
