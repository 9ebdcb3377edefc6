// Package utils holds small helpers shared by the namematch commands.
package utils

// Build metadata, set with -ldflags "-X" at release time and printed by
// `namematch version` and the MCP server handshake.
var (
	Version   = "dev"
	Sha       = "HEAD"
	Buildtime = "dev"
)
