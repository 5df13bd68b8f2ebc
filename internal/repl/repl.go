// Package repl implements an interactive inspector over a loaded module:
// ancestry and distance queries against the tag registry, function group
// listings, and dispatch resolution with per-candidate explanations.
package repl

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"newt/internal/dispatch"
	"newt/internal/loader"
	"newt/internal/object"
)

const PROMPT = ">> "

func Start(res *loader.Result, in io.Reader, out io.Writer) {
	scanner := bufio.NewScanner(in)

	fmt.Fprintln(out, "newt inspector, type 'help' for commands")
	for {
		fmt.Fprint(out, PROMPT)
		if !scanner.Scan() {
			return
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		cmd, rest := splitCommand(line)
		switch cmd {
		case "quit", "exit":
			return
		case "help":
			printHelp(out)
		case "tags":
			printTags(res, out)
		case "chain":
			printChain(res, out, rest)
		case "dist":
			printDistance(res, out, rest)
		case "fns":
			printFunctions(res, out, rest)
		case "resolve":
			runResolve(res, out, rest, false)
		case "explain":
			runResolve(res, out, rest, true)
		default:
			fmt.Fprintf(out, "unknown command %q, try 'help'\n", cmd)
		}
	}
}

func splitCommand(line string) (string, string) {
	parts := strings.SplitN(line, " ", 2)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], strings.TrimSpace(parts[1])
}

func printHelp(out io.Writer) {
	fmt.Fprint(out, `commands:
  tags                      list every tag with its parent
  chain <Tag>               ancestor chain from a tag up to Any
  dist <From> <To>          tag distance, if To is an ancestor of From
  fns [name]                list function definitions
  resolve <name> [args...]  dispatch a call, args as a YAML sequence
  explain <name> [args...]  like resolve, but report every candidate
  quit
`)
}

func printTags(res *loader.Result, out io.Writer) {
	for _, t := range res.Registry.Tags() {
		if t.Parent() == nil {
			fmt.Fprintf(out, "%s\n", t.Name)
			continue
		}
		fmt.Fprintf(out, "%s < %s\n", t.Name, t.Parent().Name)
	}
}

func printChain(res *loader.Result, out io.Writer, name string) {
	t, ok := res.Registry.Lookup(name)
	if !ok {
		fmt.Fprintf(out, "unknown tag %q\n", name)
		return
	}
	names := []string{}
	for _, a := range res.Registry.AncestorChain(t) {
		names = append(names, a.Name)
	}
	fmt.Fprintln(out, strings.Join(names, " > "))
}

func printDistance(res *loader.Result, out io.Writer, rest string) {
	parts := strings.Fields(rest)
	if len(parts) != 2 {
		fmt.Fprintln(out, "usage: dist <From> <To>")
		return
	}
	from, ok := res.Registry.Lookup(parts[0])
	if !ok {
		fmt.Fprintf(out, "unknown tag %q\n", parts[0])
		return
	}
	to, ok := res.Registry.Lookup(parts[1])
	if !ok {
		fmt.Fprintf(out, "unknown tag %q\n", parts[1])
		return
	}
	d, ok := res.Registry.Distance(from, to)
	if !ok {
		fmt.Fprintf(out, "%s is not an ancestor of %s\n", to, from)
		return
	}
	fmt.Fprintln(out, d)
}

func printFunctions(res *loader.Result, out io.Writer, name string) {
	names := res.Table.Names()
	if name != "" {
		names = []string{name}
	}
	for _, n := range names {
		defs := res.Table.Definitions(n)
		if len(defs) == 0 {
			fmt.Fprintf(out, "no function %q\n", n)
			continue
		}
		for _, def := range defs {
			fmt.Fprintln(out, def.Signature())
		}
	}
}

func runResolve(res *loader.Result, out io.Writer, rest string, explain bool) {
	name, argSrc := splitCommand(rest)
	if name == "" {
		fmt.Fprintln(out, "usage: resolve <name> [args as YAML sequence]")
		return
	}

	args, err := decodeArgs(res, argSrc)
	if err != nil {
		fmt.Fprintf(out, "bad arguments: %v\n", err)
		return
	}

	if explain {
		candidates, sel, err := res.Table.Explain(name, args)
		for _, cand := range candidates {
			if cand.Matched {
				fmt.Fprintf(out, "  %s  score %s\n", cand.Def.Signature(), cand.Score)
			} else {
				fmt.Fprintf(out, "  %s  no match: %s\n", cand.Def.Signature(), cand.Reason)
			}
		}
		reportSelection(out, sel, err)
		return
	}

	sel, err := res.Table.Resolve(name, args)
	reportSelection(out, sel, err)
}

func decodeArgs(res *loader.Result, src string) ([]object.Object, error) {
	if src == "" {
		return nil, nil
	}
	val, err := loader.DecodeValueString(res.Registry, src)
	if err != nil {
		return nil, err
	}
	list, ok := val.(*object.List)
	if !ok {
		// a single bare value is accepted as a one-argument call
		return []object.Object{val}, nil
	}
	return list.Elements, nil
}

func reportSelection(out io.Writer, sel *dispatch.Selection, err error) {
	if err != nil {
		fmt.Fprintf(out, "error: %v\n", err)
		return
	}
	fmt.Fprintf(out, "%s  score %s\n", sel.Def.Signature(), sel.Score)
	for _, name := range sortedBindingNames(sel.Bindings) {
		fmt.Fprintf(out, "  %s = %s\n", name, sel.Bindings[name].Inspect())
	}
}

func sortedBindingNames(bindings map[string]object.Object) []string {
	names := make([]string, 0, len(bindings))
	for name := range bindings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
