// Package dispatcher routes actions to handlers.
//
// Actions are named "namespace.action". A Router maps each namespace to a
// handler.NamespaceHandler; a Registry holds handlers for exact names and is
// consulted when no namespace claims the action. The copy-line commands are
// registered under the "copyline" namespace by the app, and Lua plugins add
// their own namespaces through the same Router.
//
// Dispatch is synchronous. Handlers run on the caller's goroutine, which is
// the front end's event loop, and may leave a prompt open for a later key.
//
// Pre-dispatch hooks may rewrite or cancel an action; post-dispatch hooks see
// the result. Handler panics are recovered into error results unless
// disabled in Config.
package dispatcher
