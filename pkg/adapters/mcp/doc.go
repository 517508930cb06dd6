// Package mcp exposes a running session to agents through the Model Context
// Protocol: tools to read the state, queue events and draw the phase graph,
// and a gamestate://state resource.
package mcp
