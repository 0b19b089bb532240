// Package pulse is the client side of the PortfolioPulse tracker.
//
// It talks to the PortfolioPulse backend over HTTP and keeps a small amount
// of process-local state about the portfolio being displayed:
//   - Snapshot: the latest PortfolioSummary and the ordered AssetPosition
//     list, replaced wholesale on every successful fetch.
//   - Client: owns the ClientState (Idle, Loading, Ready, Error) and the busy
//     flag that guarantees at most one refresh cycle at a time.
//   - Orchestrator: runs an ordered list of Steps and narrates them into a
//     Journal of LogEntry values.
//
// Nothing is persisted. Rendering lives in the renderer package and the
// command-line front end in the cmd package.
package pulse
