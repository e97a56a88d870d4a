package extractor

import (
	"html"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

/*
Cloaked-mail de-obfuscation

Some pages hide addresses from harvesters by assembling them in inline
scripts from HTML-entity-encoded string fragments:

	var addy123 = '&#105;nf&#111;' + '&#64;';
	addy123 = addy123 + 'k&#97;gr&#105;f&#111;n' + '&#46;' + 'r&#117;';

The evaluator below understands exactly that shape: assignments to
addy / addy_text variables whose right-hand side concatenates quoted
string literals and previously bound identifiers with "+". Any other
token (calls, arithmetic, properties) contributes the empty string.
This is deliberate: the goal is recovering cloaked addresses, not
executing scripts.
*/

var cloakAssignPattern = regexp.MustCompile(`^(?:var\s+)?(addy_text\w+|addy\w+)\s*=\s*(.+)$`)
var identifierPattern = regexp.MustCompile(`^[A-Za-z_$]\w*$`)

// cloakedEmailCandidates evaluates the cloaking assignments of every
// inline script and returns each bound value that contains an "@".
func cloakedEmailCandidates(doc *goquery.Document) []string {
	var candidates []string
	for _, script := range scriptBodies(doc) {
		if !strings.Contains(script, "cloak") && !strings.Contains(script, "addy") {
			continue
		}
		bindings := make(map[string]string)
		for _, statement := range splitStatements(script) {
			match := cloakAssignPattern.FindStringSubmatch(strings.TrimSpace(statement))
			if match == nil {
				continue
			}
			value := evalConcat(match[2], bindings)
			bindings[match[1]] = value
			if strings.Contains(value, "@") {
				candidates = append(candidates, value)
			}
		}
	}
	return candidates
}

// splitStatements splits a script on ";" outside single- and
// double-quoted strings. Entity references inside literals keep their
// semicolons.
func splitStatements(script string) []string {
	var statements []string
	var current strings.Builder
	var quote byte
	escaped := false

	for i := 0; i < len(script); i++ {
		c := script[i]
		if quote != 0 {
			current.WriteByte(c)
			if escaped {
				escaped = false
			} else if c == '\\' {
				escaped = true
			} else if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"':
			quote = c
			current.WriteByte(c)
		case ';':
			statements = append(statements, current.String())
			current.Reset()
		default:
			current.WriteByte(c)
		}
	}
	if current.Len() > 0 {
		statements = append(statements, current.String())
	}
	return statements
}

// evalConcat evaluates a "+"-joined expression of string literals and
// bound identifiers. Unknown identifiers and unsupported constructs
// collapse to the empty string.
func evalConcat(expr string, bindings map[string]string) string {
	var result strings.Builder
	for _, part := range splitConcatParts(expr) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if part[0] == '\'' || part[0] == '"' {
			result.WriteString(html.UnescapeString(unquoteLiteral(part)))
			continue
		}
		if identifierPattern.MatchString(part) {
			result.WriteString(bindings[part])
		}
	}
	return result.String()
}

// splitConcatParts splits on "+" outside quoted strings.
func splitConcatParts(expr string) []string {
	var parts []string
	var current strings.Builder
	var quote byte
	escaped := false

	for i := 0; i < len(expr); i++ {
		c := expr[i]
		if quote != 0 {
			current.WriteByte(c)
			if escaped {
				escaped = false
			} else if c == '\\' {
				escaped = true
			} else if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"':
			quote = c
			current.WriteByte(c)
		case '+':
			parts = append(parts, current.String())
			current.Reset()
		default:
			current.WriteByte(c)
		}
	}
	parts = append(parts, current.String())
	return parts
}

// unquoteLiteral strips matching quotes and resolves backslash escapes.
// An unterminated literal ends at the end of the statement.
func unquoteLiteral(literal string) string {
	if len(literal) < 2 {
		return ""
	}
	quote := literal[0]
	body := literal[1:]
	if body[len(body)-1] == quote {
		body = body[:len(body)-1]
	}

	var result strings.Builder
	escaped := false
	for i := 0; i < len(body); i++ {
		c := body[i]
		if escaped {
			result.WriteByte(c)
			escaped = false
			continue
		}
		if c == '\\' {
			escaped = true
			continue
		}
		result.WriteByte(c)
	}
	return result.String()
}
