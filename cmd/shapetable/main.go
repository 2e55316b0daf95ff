// Command shapetable inspects and converts delimited text files.
//
// Usage:
//
//	shapetable detect [flags] FILE
//	shapetable convert [flags] FILE
//	shapetable json [flags] FILE
//	shapetable sort -column N [flags] FILE
//
// Flags fall back to SHAPETABLE_* environment variables, which may also be
// set in a .env file in the working directory.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

func envInt(name string, def int) int {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envBool(name string, def bool) bool {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func envString(name, def string) string {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		return v
	}
	return def
}

const usage = `usage: shapetable <command> [flags] FILE

commands:
  detect   print the detected encoding, dialect and shape
  convert  rewrite the file in another dialect or encoding
  json     export the file as JSON
  sort     sort the rows by one column

Run "shapetable <command> -h" for the flags of a command.
`

func main() {
	// A missing .env file is fine.
	_ = godotenv.Load()
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one command and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}

	var cmd func([]string, io.Writer, io.Writer) error
	switch args[0] {
	case "detect":
		cmd = runDetect
	case "convert":
		cmd = runConvert
	case "json":
		cmd = runJSON
	case "sort":
		cmd = runSort
	case "-h", "-help", "--help", "help":
		fmt.Fprint(stdout, usage)
		return 0
	default:
		fmt.Fprintf(stderr, "shapetable: unknown command %q\n\n%s", args[0], usage)
		return 2
	}

	if err := cmd(args[1:], stdout, stderr); err != nil {
		if errors.Is(err, errUsage) {
			return 2
		}
		fmt.Fprintf(stderr, "shapetable %s: %v\n", args[0], err)
		return 1
	}
	return 0
}
