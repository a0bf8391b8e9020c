// Package msg defines the message types used by the TUI's Bubbletea event loop.
//
// Dashboards never touch the network from Update. Fetches run either inside
// a feed source, whose callbacks hand results to the program with Send, or
// inside the tea.Cmd factories in this package. Both paths produce the
// messages defined here.
//
// Every message that belongs to one mounted dashboard embeds a Scope. The
// root model compares the scope's mount id with the dashboard currently
// mounted and drops anything addressed to a dashboard that has already been
// closed.
package msg
