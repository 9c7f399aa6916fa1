// Package snippet parses and expands placeholder templates.
//
// Supported syntax:
//
//	${N:default}  tab stop N showing default text
//	${N}          empty tab stop N
//	$N            mirror of tab stop N (shows the same text)
//	\$ \} \\      literal '$', '}' and '\'
//
// Expand returns the rendered text along with the position of every stop
// and mirror, relative to the start of the rendered text, in text order.
package snippet
