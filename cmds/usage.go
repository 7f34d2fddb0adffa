package cmds

import (
	"fmt"
	"os"
	"slices"
	"strings"
)

func (p *Executor) PrintUsage() {
	names := make([]string, 0, len(p.commands))
	for name := range p.commands {
		names = append(names, name)
	}
	slices.Sort(names)

	printed := make(map[*Command]bool)
	for _, name := range names {
		command := p.commands[name]
		if printed[command] {
			continue
		}
		printed[command] = true
		printCommand(name, command, 0)
	}
}

func printCommand(name string, command *Command, indent int) {
	var b strings.Builder
	b.WriteString(strings.Repeat("  ", indent))
	b.WriteString(name)
	if command != nil {
		if len(command.Aliases) > 0 {
			b.WriteString(" (")
			b.WriteString(strings.Join(command.Aliases, ", "))
			b.WriteString(")")
		}
		if command.Description != "" {
			b.WriteString("\t")
			b.WriteString(command.Description)
		}
	}
	fmt.Fprintln(os.Stderr, b.String())

	if command == nil {
		return
	}
	subNames := make([]string, 0, len(command.Subs))
	for subName := range command.Subs {
		subNames = append(subNames, subName)
	}
	slices.Sort(subNames)
	for _, subName := range subNames {
		printCommand(subName, command.Subs[subName], indent+1)
	}
}
