// Package logging provides structured logging for panelctl.
//
// This package wraps a global zap logger with convenience functions. It is
// silent by default so that CLI output stays clean; set a level explicitly
// or through the PANELCTL_LOG_LEVEL environment variable to see logs.
//
// # Log Levels
//
//   - Debug: probe timeouts, dropped noise packets, hex dumps
//   - Info: scan results, listener start/stop, bridge clients
//   - Warn: receive errors the listener recovers from, dropped events
//   - Error: failures that abort a command
//
// # Usage
//
//	if err := logging.Initialize("debug"); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
//	logging.Info("Panel discovered",
//	    zap.String("address", "192.168.0.50"),
//	    zap.Int("dip", 3),
//	)
//
// # Thread Safety
//
// All logging functions are safe for concurrent use.
package logging
