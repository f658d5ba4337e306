// Package server runs one application from the registry on one listener.
//
// Run loads the application before binding, makes a single listen attempt
// and serves through a handler that can be swapped atomically. With reload
// enabled a file watcher triggers Reload, which rebuilds configuration and
// the application and swaps it in while the listener stays open. A failed
// reload keeps the previous application serving.
//
// Cancelling the context passed to Run shuts the HTTP server down
// gracefully within ShutdownTimeout.
package server
