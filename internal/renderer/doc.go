// Package renderer draws a Frame onto a backend.Backend.
//
// A Frame is a snapshot of what the terminal front end shows: the buffer
// text, the selections, the highlighted region sets with their host styles,
// a status message and the open prompt, if any. The Renderer lays it out as
//
//	+--------+-----------------------------+
//	| gutter | text                        |
//	|  icon  |  regions, selections        |
//	|  line# |                             |
//	+--------+-----------------------------+
//	| prompt line (only while a prompt is open)
//	| status line
//
// and keeps the primary cursor visible by scrolling vertically and
// horizontally. Region scopes and explicit colours are resolved through a
// Theme; gutter icons come from the region style's Icon.
package renderer
