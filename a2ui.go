// Package a2ui implements the server side of the A2UI demo protocol: a
// session hub that streams data-model patches to a browser client and runs
// multi-step flows against external tool (MCP) and agent (A2A) collaborators.
//
// The orchestration core lives in pkg/patch (the patch protocol), pkg/blocks
// (the UI block allow-list and sanitizer), pkg/session (the session hub and
// stream publisher) and internal/orchestrator (event intake and flows).
package a2ui

// Version is the release version, injected at build time via ldflags.
var Version = "0.2.0"
