// Package host defines the editor collaborator the copy and collate
// commands run against.
//
// The commands never touch a concrete buffer. They read text, selections
// and tracked regions through View, apply changes inside View.Edit (one
// transaction per command or prompt callback), and talk to the user through
// prompts, status notices and snippet expansion.
//
// memhost provides an in-memory View used by the terminal front end and by
// tests.
package host
