package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	authtoken "github.com/iov-one/authtoken"
)

// commands is a register of all availables commands that can be executed by
// this program. The name is used to match with the first argument given.
//
// A command function is an independent runable that is taking input and output
// being stdin and stdout. Given args are the command line arguments, without
// the program name, that should be parsed using the flag package.
// A command function is expected to read and write only to provided input and
// output. In a special case of an invalid argument a message to os.Stderr and
// os.Exit(2) call are allowed.
//
// Signing happens off-ledger and is separated from execution, so the key
// never has to be present where the state is kept:
//
//   $ authtoken sign-add-admin -admin GB... -nonce 0 > add.sig
//   $ authtoken add-admin -admin GB... -nonce 0 -sig $(cat add.sig)
//
var commands = map[string]func(input io.Reader, output io.Writer, args []string) error{
	"add-admin":      cmdAddAdmin,
	"admins":         cmdAdmins,
	"export":         cmdExport,
	"init":           cmdInit,
	"keyaddr":        cmdKeyaddr,
	"keygen":         cmdKeygen,
	"nonce":          cmdNonce,
	"set-owner":      cmdSetOwner,
	"sign-add-admin": cmdSignAddAdmin,
	"version":        cmdVersion,
}

func main() {
	if len(os.Args) == 1 {
		fmt.Fprintf(os.Stderr, "%s manages the owner and admins of a contract instance.\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Usage: %s <command> [<flags>]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nAvailable commands are:\n\t%s\n", strings.Join(availableCmds(), "\n\t"))
		fmt.Fprintf(os.Stderr, "Run '%s <command> -help' to learn more about each command.\n", os.Args[0])
		os.Exit(2)
	}
	run, ok := commands[os.Args[1]]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "\nAvailable commands are:\n\t%s\n", strings.Join(availableCmds(), "\n\t"))
		os.Exit(2)
	}

	// Skip two first arguments. Second argument is the command name that
	// we just consumed.
	if err := run(os.Stdin, os.Stdout, os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func availableCmds() []string {
	available := make([]string, 0, len(commands))
	for name := range commands {
		available = append(available, name)
	}
	sort.Strings(available)
	return available
}

func cmdVersion(in io.Reader, out io.Writer, args []string) error {
	_, err := fmt.Fprintln(out, authtoken.Version())
	return err
}
