// Package app resolves application objects by reference.
//
// A reference has the form "<module>:<attribute>", e.g. "main:app". Modules
// are namespaces in a Registry and attributes name a Factory inside them.
// The server runtime asks the registry for the configured reference at
// startup and again on every reload.
//
// Example Usage:
//
//	registry := app.NewRegistry()
//	registry.MustRegister("main:app", api.New)
//
//	application, err := registry.Load("main:app", app.Options{Config: cfg, Logger: logger})
//	if err != nil {
//	    return err // *app.LoadError
//	}
//	defer application.Close()
package app
