package cliterm

import (
	"fmt"
	"strings"
)

// subcommands are the top-level verbs the completions scripts below
// complete against. Kept in one place so adding a subcommand can't
// desync the shells from each other.
var subcommands = []string{"dict", "combo", "enum", "run", "fsck", "completions"}

// Bash renders a bash completion script for the authoscope binary.
func Bash() string {
	return fmt.Sprintf(`_authoscope() {
    local cur prev
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    if [ "$COMP_CWORD" -eq 1 ]; then
        COMPREPLY=( $(compgen -W "%s" -- "$cur") )
    fi
}
complete -F _authoscope authoscope
`, strings.Join(subcommands, " "))
}

// Zsh renders a zsh completion script.
func Zsh() string {
	return fmt.Sprintf(`#compdef authoscope
_authoscope() {
    _arguments '1: :(%s)'
}
_authoscope
`, strings.Join(subcommands, " "))
}

// Fish renders a fish completion script.
func Fish() string {
	var out string
	for _, c := range subcommands {
		out += fmt.Sprintf("complete -c authoscope -n '__fish_use_subcommand' -a %s\n", c)
	}
	return out
}
