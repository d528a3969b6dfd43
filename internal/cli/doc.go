// Package cli implements the sysinsight command-line interface.
//
// Each Cobra command parses its flags and hands off to a function in this
// package that loads config, builds the pieces from the internal packages
// and runs them until interrupted.
//
// # Command Structure
//
//	sysinsight dashboard   - Live TUI dashboard polling the metrics API
//	sysinsight serve       - Serve this machine's metrics over HTTP
//	sysinsight init        - Create .sysinsight.yaml
//	sysinsight version     - Print build information
//	sysinsight completion  - Generate shell completions
//
// # Configuration
//
// Commands resolve .sysinsight.yaml through config.LoadOrDefault: --config
// first, then the current directory and its parents, then the global file,
// then built-in defaults. SYSINSIGHT_* environment variables override file
// values, and command flags override both but only when set explicitly.
//
// # Dashboard Wiring
//
// The dashboard command connects a dashboard.Controller to a monitor.Model
// through a monitor.Bridge. The controller emits events into the bridge and
// reads visibility changes from it; the model drains the events on the
// Bubble Tea loop and calls back into the controller from commands.
package cli
