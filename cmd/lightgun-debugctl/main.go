// Command lightgun-debugctl is a flag-driven one-shot client for the
// lightgund status API, grounded on cmd/nvclient's subcommand-before-
// flag.Parse dispatch (nvclient's "arm" subcommand in arm.go).
package main

import (
	"fmt"
	"os"
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage:\n")
	fmt.Fprintf(os.Stderr, "  lightgun-debugctl status [--addr 127.0.0.1:8787] [--token-file status_api_token.txt]\n")
	fmt.Fprintf(os.Stderr, "  lightgun-debugctl debug   [--addr ...] [--token-file ...] --opcode N [--p0 N] [--p1 N] [--p2 N] [--p3 N]\n")
	fmt.Fprintf(os.Stderr, "  lightgun-debugctl stream  [--addr ...] [--token-file ...]\n")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var code int
	switch os.Args[1] {
	case "status":
		code = cmdStatus(os.Args[2:])
	case "debug":
		code = cmdDebug(os.Args[2:])
	case "stream":
		code = cmdStream(os.Args[2:])
	case "-h", "--help", "help":
		usage()
		code = 0
	default:
		fmt.Fprintf(os.Stderr, "unknown subcommand %q\n\n", os.Args[1])
		usage()
		code = 2
	}
	os.Exit(code)
}
