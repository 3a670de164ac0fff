// Package flagx lets each config layer parse only the flags it owns without
// tripping over flags defined elsewhere in the binary.
package flagx

import (
	"flag"
	"os"
	"strings"
)

// FilterArgs keeps only the arguments belonging to the flags in allowed,
// dropping everything else. Both "-f value" and "-f=value" spellings are
// recognized; for the former the value argument is kept alongside the flag.
func FilterArgs(args []string, allowed []string) []string {
	want := make(map[string]bool, len(allowed))
	for _, name := range allowed {
		want[name] = true
	}

	kept := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]

		if name, _, found := strings.Cut(arg, "="); found && strings.HasPrefix(name, "-") {
			if want[name] {
				kept = append(kept, arg)
			}
			continue
		}

		if !want[arg] {
			continue
		}
		kept = append(kept, arg)

		// a following non-flag argument is this flag's value
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			kept = append(kept, args[i+1])
			i++
		}
	}

	return kept
}

// JsonConfigFlags reads the config file path from -c or -config, ignoring
// every other command-line argument. Returns "" when neither flag is set.
func JsonConfigFlags() string {
	args := FilterArgs(os.Args[1:], []string{"-c", "-config"})

	var path string
	fs := flag.NewFlagSet("json", flag.ContinueOnError)
	fs.StringVar(&path, "config", "", "Path to config file")
	fs.StringVar(&path, "c", "", "Path to config file (short)")
	_ = fs.Parse(args)

	return path
}
