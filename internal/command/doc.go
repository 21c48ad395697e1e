// Package command implements the scripting virtual machine that drives
// bound keys, the command line, and startup init blocks.
//
// Source text is tokenized, compiled into a flat bytecode array, and run
// on a small stack machine. Three command kinds exist: builtin commands
// implemented in Go (registered by name), macro commands defined with a
// `macro` block, and request commands that ask the host to perform an
// asynchronous action and resume the caller with its result.
package command
