// Package printer renders token streams back to annotated source text,
// used for colorized dumps and error excerpts.
package printer

import (
	"fmt"
	"math"
	"strings"

	"github.com/fatih/color"

	"github.com/cyrup-ai/go-yyaml/schema"
	"github.com/cyrup-ai/go-yyaml/token"
)

// Property additional property set for each the token
type Property struct {
	Prefix string
	Suffix string
}

// PrintFunc returns property instance
type PrintFunc func() *Property

// Printer create text from a token collection
type Printer struct {
	LineNumber       bool
	LineNumberFormat func(num int) string
	MapKey           PrintFunc
	Anchor           PrintFunc
	Alias            PrintFunc
	Bool             PrintFunc
	String           PrintFunc
	Number           PrintFunc
}

func defaultLineNumberFormat(num int) string {
	return fmt.Sprintf("%2d | ", num)
}

func (p *Printer) property(tk *token.Token) *Property {
	prop := &Property{}
	switch tk.Type {
	case token.AnchorType:
		if p.Anchor != nil {
			return p.Anchor()
		}
		return prop
	case token.AliasType:
		if p.Alias != nil {
			return p.Alias()
		}
		return prop
	case token.ScalarType:
	default:
		return prop
	}
	if tk.NextType() == token.ValueType {
		if p.MapKey != nil {
			return p.MapKey()
		}
		return prop
	}
	if tk.Style != token.PlainStyle {
		if p.String != nil {
			return p.String()
		}
		return prop
	}
	switch schema.Resolve(tk.Value).Kind {
	case schema.BoolKind:
		if p.Bool != nil {
			return p.Bool()
		}
	case schema.IntKind, schema.UintKind, schema.BigIntKind, schema.FloatKind:
		if p.Number != nil {
			return p.Number()
		}
	default:
		if p.String != nil {
			return p.String()
		}
	}
	return prop
}

// PrintTokens create text from token collection
func (p *Printer) PrintTokens(tokens token.Tokens) string {
	if len(tokens) == 0 {
		return ""
	}
	if p.LineNumber {
		if p.LineNumberFormat == nil {
			p.LineNumberFormat = defaultLineNumberFormat
		}
	}
	texts := []string{}
	lineNumber := tokens[0].Start.Line
	for _, tk := range tokens {
		lines := strings.Split(tk.Origin, "\n")
		prop := p.property(tk)
		header := ""
		if p.LineNumber {
			header = p.LineNumberFormat(lineNumber)
		}
		if len(lines) == 1 {
			line := prop.Prefix + lines[0] + prop.Suffix
			if len(texts) == 0 {
				texts = append(texts, header+line)
				lineNumber++
			} else {
				text := texts[len(texts)-1]
				texts[len(texts)-1] = text + line
			}
		} else {
			for idx, src := range lines {
				if p.LineNumber {
					header = p.LineNumberFormat(lineNumber)
				}
				line := prop.Prefix + src + prop.Suffix
				if idx == 0 {
					if len(texts) == 0 {
						texts = append(texts, header+line)
						lineNumber++
					} else {
						text := texts[len(texts)-1]
						texts[len(texts)-1] = text + line
					}
				} else {
					texts = append(texts, fmt.Sprintf("%s%s", header, line))
					lineNumber++
				}
			}
		}
	}
	return strings.Join(texts, "\n")
}

const escape = "\x1b"

func format(attr color.Attribute) string {
	return fmt.Sprintf("%s[%dm", escape, attr)
}

// DefaultColorSet installs the standard color properties.
func (p *Printer) DefaultColorSet() {
	p.Bool = func() *Property {
		return &Property{
			Prefix: format(color.FgHiMagenta),
			Suffix: format(color.Reset),
		}
	}
	p.Number = func() *Property {
		return &Property{
			Prefix: format(color.FgHiMagenta),
			Suffix: format(color.Reset),
		}
	}
	p.MapKey = func() *Property {
		return &Property{
			Prefix: format(color.FgHiCyan),
			Suffix: format(color.Reset),
		}
	}
	p.Anchor = func() *Property {
		return &Property{
			Prefix: format(color.FgHiYellow),
			Suffix: format(color.Reset),
		}
	}
	p.Alias = func() *Property {
		return &Property{
			Prefix: format(color.FgHiYellow),
			Suffix: format(color.Reset),
		}
	}
	p.String = func() *Property {
		return &Property{
			Prefix: format(color.FgHiGreen),
			Suffix: format(color.Reset),
		}
	}
}

// PrintErrorMessage renders an error headline, optionally colored.
func (p *Printer) PrintErrorMessage(msg string, isColored bool) string {
	if isColored {
		return fmt.Sprintf("%s%s%s",
			format(color.FgHiRed),
			msg,
			format(color.Reset),
		)
	}
	return msg
}

// PrintErrorToken reprints the source around the given token with line
// numbers, a '>' gutter marker on the offending line and a '^' annotation
// under the offending column.
func (p *Printer) PrintErrorToken(tk *token.Token, isColored bool) string {
	errToken := tk
	pos := tk.Start
	curLine := pos.Line
	curExtLine := curLine
	if tk.Origin != "" {
		curExtLine += len(strings.Split(strings.TrimLeft(tk.Origin, "\n"), "\n")) - 1
		if tk.Origin[len(tk.Origin)-1] == '\n' {
			curExtLine--
		}
	}
	minLine := int(math.Max(float64(curLine-3), 1))
	maxLine := curExtLine + 3
	for {
		if tk.Start.Line < minLine {
			break
		}
		if tk.Prev == nil {
			break
		}
		tk = tk.Prev
	}
	tokens := token.Tokens{}
	for tk != nil && tk.Start.Line <= curExtLine {
		if tk.Origin != "" {
			tokens = append(tokens, tk)
		}
		tk = tk.Next
	}
	p.LineNumber = true
	p.LineNumberFormat = func(num int) string {
		if isColored {
			fn := color.New(color.Bold, color.FgHiWhite).SprintFunc()
			if curLine == num {
				return fn(fmt.Sprintf("> %2d | ", num))
			}
			return fn(fmt.Sprintf("  %2d | ", num))
		}
		if curLine == num {
			return fmt.Sprintf("> %2d | ", num)
		}
		return fmt.Sprintf("  %2d | ", num)
	}
	if isColored {
		p.DefaultColorSet()
	}
	beforeSource := p.PrintTokens(tokens)
	prefixSpaceNum := len(fmt.Sprintf("  %2d | ", 1))
	annotateLine := strings.Repeat(" ", prefixSpaceNum+errToken.Start.Column-1) + "^"
	tokens = token.Tokens{}
	for tk != nil {
		if tk.Start.Line > maxLine {
			break
		}
		if tk.Origin != "" {
			tokens = append(tokens, tk)
		}
		tk = tk.Next
	}
	afterSource := p.PrintTokens(tokens)
	if afterSource == "" {
		return fmt.Sprintf("%s\n%s", beforeSource, annotateLine)
	}
	return fmt.Sprintf("%s\n%s\n%s", beforeSource, annotateLine, afterSource)
}
