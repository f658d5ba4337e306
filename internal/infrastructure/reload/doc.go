// Package reload implements reload-on-change for development.
//
// A Watcher registers every directory under the configured roots with
// fsnotify (discovered with fastwalk), filters events through doublestar
// include/exclude globs and emits one Change per quiet period of
// RELOAD_DELAY. The server runtime reacts to a Change by rebuilding the
// application object.
//
// Reload is off by default and only starts when RELOAD=true or the -reload
// flag is given.
package reload
