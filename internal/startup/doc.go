// Package startup is the process entrypoint of the Flood Detection Backend
// API.
//
// Run reads HOST (default 0.0.0.0) and PORT (default 8001) along with the
// rest of the configuration, prints the startup banner and hands the
// main:app application to the server runtime. Reload on change is off
// unless -reload or RELOAD=true asks for it.
//
// Flags:
//
//	-reload          reload the application when source files change
//	-env-file PATH   load variables from a dotenv file first
//	-log-level LVL   override LOG_LEVEL
//	-app REF         override the application reference (module:attribute)
package startup
