package models

import "strings"

// Command is an external program invocation: the program plus its
// argument list, never passed through a shell.
type Command struct {
	Program string
	Args    []string
}

// NewCommand creates a new Command
func NewCommand(program string, args ...string) Command {
	if args == nil {
		args = []string{}
	}
	return Command{Program: program, Args: args}
}

// WithProgram returns a copy of the command running a different program
// with the same arguments.
func (c Command) WithProgram(program string) Command {
	args := append([]string{}, c.Args...)
	return Command{Program: program, Args: args}
}

// String renders the command the way it would be typed in a shell.
func (c Command) String() string {
	parts := append([]string{c.Program}, c.Args...)
	return strings.Join(parts, " ")
}
