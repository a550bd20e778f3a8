// Command ydump dumps the three stages of the loading pipeline for a YAML
// file: tokens, events and the composed document tree.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
	"github.com/spf13/cobra"

	yaml "github.com/cyrup-ai/go-yyaml"
	"github.com/cyrup-ai/go-yyaml/lexer"
	"github.com/cyrup-ai/go-yyaml/node"
	"github.com/cyrup-ai/go-yyaml/printer"
)

const escape = "\x1b"

func format(attr color.Attribute) string {
	return fmt.Sprintf("%s[%dm", escape, attr)
}

func colorProperty(attr color.Attribute) printer.PrintFunc {
	return func() *printer.Property {
		return &printer.Property{
			Prefix: format(attr),
			Suffix: format(color.Reset),
		}
	}
}

func dumpTokens(filename string) error {
	src, err := os.ReadFile(filename)
	if err != nil {
		return err
	}
	tokens, err := lexer.Tokenize(src)
	if err != nil {
		return err
	}
	var p printer.Printer
	p.LineNumber = true
	p.LineNumberFormat = func(num int) string {
		fn := color.New(color.Bold, color.FgHiWhite).SprintFunc()
		return fn(fmt.Sprintf("%2d | ", num))
	}
	p.Bool = colorProperty(color.FgHiMagenta)
	p.Number = colorProperty(color.FgHiMagenta)
	p.MapKey = colorProperty(color.FgHiCyan)
	p.Anchor = colorProperty(color.FgHiYellow)
	p.Alias = colorProperty(color.FgHiYellow)
	p.String = colorProperty(color.FgHiGreen)
	writer := colorable.NewColorableStdout()
	fmt.Fprintln(writer, p.PrintTokens(tokens))
	return nil
}

func dumpEvents(filename string) error {
	src, err := os.ReadFile(filename)
	if err != nil {
		return err
	}
	events, err := yaml.ParseEvents(src)
	if err != nil {
		return err
	}
	for _, ev := range events {
		fmt.Println(ev)
	}
	return nil
}

func dumpTree(filename string) error {
	src, err := os.ReadFile(filename)
	if err != nil {
		return err
	}
	docs, err := yaml.LoadAll(src)
	if err != nil {
		return err
	}
	for i, doc := range docs {
		if i > 0 {
			fmt.Println("---")
		}
		renderNode(doc, doc.Root, 0, map[node.ID]bool{})
	}
	return nil
}

func renderNode(doc *node.Document, id node.ID, depth int, seen map[node.ID]bool) {
	indent := strings.Repeat("  ", depth)
	n := doc.Node(id)
	if seen[id] {
		fmt.Printf("%s*%d (cycle)\n", indent, id)
		return
	}
	seen[id] = true
	defer delete(seen, id)
	switch n.Kind {
	case node.SequenceKind:
		fmt.Printf("%sSequence (%d items)\n", indent, len(n.Seq))
		for _, item := range n.Seq {
			renderNode(doc, item, depth+1, seen)
		}
	case node.MappingKind:
		fmt.Printf("%sMapping (%d pairs)\n", indent, len(n.Keys))
		for i := range n.Keys {
			renderNode(doc, n.Keys[i], depth+1, seen)
			renderNode(doc, n.Values[i], depth+2, seen)
		}
	case node.TaggedKind:
		fmt.Printf("%sTagged %s\n", indent, n.Tag)
		renderNode(doc, n.Inner, depth+1, seen)
	default:
		fmt.Printf("%s%s %q\n", indent, n.Kind, n.Value)
	}
}

func run(fn func(string) error, args []string) error {
	if err := fn(args[0]); err != nil {
		fmt.Println(yaml.FormatError(err, true, true))
		os.Exit(1)
	}
	return nil
}

func main() {
	root := &cobra.Command{
		Use:   "ydump",
		Short: "Dump the scanner, parser and composer output for a YAML file",
	}
	root.AddCommand(
		&cobra.Command{
			Use:   "tokens FILE",
			Short: "Print the colorized token stream",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return run(dumpTokens, args)
			},
		},
		&cobra.Command{
			Use:   "events FILE",
			Short: "Print the event sequence",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return run(dumpEvents, args)
			},
		},
		&cobra.Command{
			Use:   "tree FILE",
			Short: "Print the composed document tree",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return run(dumpTree, args)
			},
		},
	)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
