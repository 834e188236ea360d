package parser

import (
	"fmt"
	"strings"
)

// redirOps lists redirection operators, longest/most-specific first so that
// ">>" is matched before ">" and "2>" before neither collides with it.
var redirOps = []string{">>", "2>", ">", "<"}

// Parse tokenizes line into a UserInput. A line that is empty, all
// whitespace, or becomes empty after tokenization yields (nil, nil) -- the
// caller re-prompts. The reportable errors are a head command with no
// components and a redirection operator with no path after it.
func Parse(line string) (*UserInput, error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return nil, nil
	}

	body, background := stripBackground(trimmed)
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, nil
	}

	parts := strings.Split(body, "|")
	commands := make([]*Command, 0, len(parts))
	for i, part := range parts {
		part = strings.TrimSpace(part)
		cmd, err := parseCommand(part, i == 0)
		if err != nil {
			return nil, err
		}
		if cmd == nil {
			continue
		}
		commands = append(commands, cmd)
	}

	if len(commands) == 0 {
		return nil, nil
	}

	return &UserInput{
		Raw:          line,
		Commands:     commands,
		IsBackground: background,
	}, nil
}

// stripBackground removes a trailing '&' (joined or separated by whitespace)
// and reports whether one was found.
func stripBackground(s string) (string, bool) {
	right := strings.TrimRight(s, " \t")
	if !strings.HasSuffix(right, "&") {
		return s, false
	}
	rest := strings.TrimSuffix(right, "&")
	return strings.TrimRight(rest, " \t"), true
}

// parseCommand tokenizes one pipeline stage. isHead requires at least one
// component before execution, per the grammar's only validated rule.
func parseCommand(part string, isHead bool) (*Command, error) {
	tokens := strings.Fields(part)
	if len(tokens) == 0 {
		if isHead {
			return nil, fmt.Errorf("parse: head command must have at least one component")
		}
		return nil, nil
	}

	cmd := &Command{Raw: part, InFD: NoFD, OutFD: NoFD}
	var components []string

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		op, path, ok := splitRedir(tok)
		if !ok {
			components = append(components, tok)
			continue
		}
		if path == "" {
			i++
			if i >= len(tokens) {
				return nil, fmt.Errorf("parse: %s: missing path", op)
			}
			path = tokens[i]
		}
		switch op {
		case ">>":
			cmd.RedirectStdout = path
			cmd.AppendStdout = true
		case ">":
			cmd.RedirectStdout = path
			cmd.AppendStdout = false
		case "2>":
			cmd.RedirectStderr = path
		case "<":
			cmd.RedirectStdin = path
		}
	}

	if len(components) == 0 {
		if isHead {
			return nil, fmt.Errorf("parse: head command must have at least one component")
		}
		return nil, nil
	}

	cmd.Components = components
	return cmd, nil
}

// splitRedir recognizes a redirection operator at the start of tok, whether
// it is joined to its path ("%s>out") or standalone ("%s>").
func splitRedir(tok string) (op, rest string, ok bool) {
	for _, o := range redirOps {
		if strings.HasPrefix(tok, o) {
			return o, tok[len(o):], true
		}
	}
	return "", tok, false
}
