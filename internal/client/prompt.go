package client

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Prompter asks questions on out and reads answers line by line from in.
type Prompter struct {
	scanner *bufio.Scanner
	out     io.Writer
}

// NewPrompter returns a Prompter over in and out.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{scanner: bufio.NewScanner(in), out: out}
}

// Ask prints label and returns the trimmed answer. ok is false at end of input.
func (p *Prompter) Ask(label string) (answer string, ok bool) {
	fmt.Fprint(p.out, label)
	if !p.scanner.Scan() {
		return "", false
	}
	return strings.TrimSpace(p.scanner.Text()), true
}

// TaskInput is what PromptForTask collects.
type TaskInput struct {
	Title       string
	Description string
	Due         string
}

// PromptForTask asks for the fields of a new task.
func (p *Prompter) PromptForTask() TaskInput {
	var in TaskInput
	in.Title, _ = p.Ask("Title: ")
	in.Description, _ = p.Ask("Description (optional): ")
	in.Due, _ = p.Ask("Due (YYYY-MM-DD or RFC 3339): ")
	return in
}

// PromptEditTask asks for replacement values. Empty answers keep the
// current value and are left out of the result.
func (p *Prompter) PromptEditTask() map[string]any {
	fields := map[string]any{}
	if v, _ := p.Ask("New title (empty to keep): "); v != "" {
		fields["title"] = v
	}
	if v, _ := p.Ask("New description (empty to keep): "); v != "" {
		fields["description"] = v
	}
	if v, _ := p.Ask("New due date (empty to keep): "); v != "" {
		fields["dueAt"] = v
	}
	return fields
}
