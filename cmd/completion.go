package cmd

import (
	"fmt"
	"os"
)

// Completion outputs shell completion scripts.
// Record names are completed only when the password is available without
// a prompt (LOCKPASS_PASSWORD or keyring); stdin is closed for that call
// and LOCKPASS_NO_CREATE keeps it from creating a store.
func Completion(shell string) {
	switch shell {
	case "bash":
		fmt.Print(bashCompletion)
	case "zsh":
		fmt.Print(zshCompletion)
	case "fish":
		fmt.Print(fishCompletion)
	default:
		fmt.Fprintf(os.Stderr, "Unknown shell: %s\nSupported: bash, zsh, fish\n", shell)
		os.Exit(1)
	}
}

const bashCompletion = `_lockpass() {
    local cur prev words cword
    _init_completion || return

    local commands="init add update rm remove show ls list status gen keyring help completion"

    if [[ $cword -eq 1 ]]; then
        COMPREPLY=($(compgen -W "$commands" -- "$cur"))
        return
    fi

    local cmd="${words[1]}"
    case "$cmd" in
        add)
            if [[ "$cur" == -* ]]; then
                COMPREPLY=($(compgen -W "-g --auto-generate" -- "$cur"))
            fi
            ;;
        update)
            if [[ "$cur" == -* ]]; then
                COMPREPLY=($(compgen -W "-g --auto-generate" -- "$cur"))
            else
                COMPREPLY=($(compgen -W "$(LOCKPASS_NO_CREATE=1 lockpass list </dev/null 2>/dev/null)" -- "$cur"))
            fi
            ;;
        show)
            if [[ "$cur" == -* ]]; then
                COMPREPLY=($(compgen -W "--no-clipboard" -- "$cur"))
            else
                COMPREPLY=($(compgen -W "$(LOCKPASS_NO_CREATE=1 lockpass list </dev/null 2>/dev/null)" -- "$cur"))
            fi
            ;;
        rm|remove)
            COMPREPLY=($(compgen -W "$(LOCKPASS_NO_CREATE=1 lockpass list </dev/null 2>/dev/null)" -- "$cur"))
            ;;
        gen)
            COMPREPLY=($(compgen -W "--length" -- "$cur"))
            ;;
        keyring)
            COMPREPLY=($(compgen -W "save delete status" -- "$cur"))
            ;;
        help)
            COMPREPLY=($(compgen -W "$commands" -- "$cur"))
            ;;
        completion)
            COMPREPLY=($(compgen -W "bash zsh fish" -- "$cur"))
            ;;
    esac
}

complete -F _lockpass lockpass
`

const zshCompletion = `#compdef lockpass

_lockpass() {
    local -a commands
    commands=(
        'init:Create a new password store'
        'add:Add a record'
        'update:Change the password of a record'
        'rm:Remove records'
        'remove:Remove records'
        'show:Print a record password and copy it to the clipboard'
        'ls:List record names'
        'list:List record names'
        'status:Show store status'
        'gen:Generate a random password'
        'keyring:Manage password in OS keyring'
        'help:Show help for a command'
        'completion:Generate shell completions'
    )

    _arguments -C \
        '1: :->command' \
        '*: :->args'

    case "$state" in
        command)
            _describe -t commands 'lockpass commands' commands
            ;;
        args)
            case "${words[2]}" in
                add)
                    _arguments \
                        '(-g --auto-generate)'{-g,--auto-generate}'[Generate the password]' \
                        '1:record name:'
                    ;;
                update)
                    _arguments \
                        '(-g --auto-generate)'{-g,--auto-generate}'[Generate the password]' \
                        '1:record:_lockpass_records'
                    ;;
                show)
                    _arguments \
                        '--no-clipboard[Do not copy to clipboard]' \
                        '1:record:_lockpass_records'
                    ;;
                rm|remove)
                    _arguments '*:record:_lockpass_records'
                    ;;
                gen)
                    _arguments '--length[Password length]:length:'
                    ;;
                keyring)
                    _values 'subcommand' save delete status
                    ;;
                help)
                    _describe -t commands 'lockpass commands' commands
                    ;;
                completion)
                    _values 'shell' bash zsh fish
                    ;;
            esac
            ;;
    esac
}

_lockpass_records() {
    local -a records
    records=(${(f)"$(LOCKPASS_NO_CREATE=1 lockpass list </dev/null 2>/dev/null)"})
    _describe -t records 'records' records
}

_lockpass "$@"
`

const fishCompletion = `# lockpass fish completions

set -l commands init add update rm remove show ls list status gen keyring help completion

complete -c lockpass -f

# Commands
complete -c lockpass -n "not __fish_seen_subcommand_from $commands" -a init -d 'Create a new password store'
complete -c lockpass -n "not __fish_seen_subcommand_from $commands" -a add -d 'Add a record'
complete -c lockpass -n "not __fish_seen_subcommand_from $commands" -a update -d 'Change a record password'
complete -c lockpass -n "not __fish_seen_subcommand_from $commands" -a rm -d 'Remove records'
complete -c lockpass -n "not __fish_seen_subcommand_from $commands" -a remove -d 'Remove records'
complete -c lockpass -n "not __fish_seen_subcommand_from $commands" -a show -d 'Print a record password'
complete -c lockpass -n "not __fish_seen_subcommand_from $commands" -a ls -d 'List record names'
complete -c lockpass -n "not __fish_seen_subcommand_from $commands" -a list -d 'List record names'
complete -c lockpass -n "not __fish_seen_subcommand_from $commands" -a status -d 'Show store status'
complete -c lockpass -n "not __fish_seen_subcommand_from $commands" -a gen -d 'Generate a random password'
complete -c lockpass -n "not __fish_seen_subcommand_from $commands" -a keyring -d 'Manage password in OS keyring'
complete -c lockpass -n "not __fish_seen_subcommand_from $commands" -a help -d 'Show help'
complete -c lockpass -n "not __fish_seen_subcommand_from $commands" -a completion -d 'Generate completions'

# add/update flags
complete -c lockpass -n "__fish_seen_subcommand_from add update" -s g -l auto-generate -d 'Generate the password'

# show flags
complete -c lockpass -n "__fish_seen_subcommand_from show" -l no-clipboard -d 'Do not copy to clipboard'

# record names
complete -c lockpass -n "__fish_seen_subcommand_from update show rm remove" -a "(env LOCKPASS_NO_CREATE=1 lockpass list </dev/null 2>/dev/null)"

# gen flags
complete -c lockpass -n "__fish_seen_subcommand_from gen" -l length -d 'Password length'

# keyring subcommands
complete -c lockpass -n "__fish_seen_subcommand_from keyring" -a "save delete status"

# help completions
complete -c lockpass -n "__fish_seen_subcommand_from help" -a "$commands"

# completion completions
complete -c lockpass -n "__fish_seen_subcommand_from completion" -a "bash zsh fish"
`
