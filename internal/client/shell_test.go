package client

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
)

func TestShell_Session(t *testing.T) {
	srv := newServer(t)
	path := filepath.Join(t.TempDir(), "session.json")

	// memrepo shares one id sequence: user 1, task 2, item 3.
	input := strings.Join([]string{
		"list",
		"register", "carol@example.com", "Carol", "pw",
		"add", "Write report", "", "2025-02-01",
		"item 2", "outline", "",
		"done 2",
		"list",
		"rm abc",
		"frobnicate",
		"exit",
	}, "\n") + "\n"

	var out bytes.Buffer
	sh := &Shell{
		API:     NewAPI(srv.URL),
		Session: NewLocalSession(path),
		Prompt:  NewPrompter(strings.NewReader(input), &out),
		Out:     &out,
	}
	sh.Run(context.Background())

	got := out.String()
	for _, want := range []string{
		"Not logged in or session expired",
		"Logged in as carol@example.com",
		"Task 2 created",
		"Item 3 created",
		"Task completed",
		"[x] 2 Write report (due 2025-02-01)",
		"- 3 outline",
		`Invalid id "abc"`,
		"Unknown command",
		"Bye",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}

	// A new shell picks the login up from the session file.
	var out2 bytes.Buffer
	sh2 := &Shell{
		API:     NewAPI(srv.URL),
		Session: NewLocalSession(path),
		Prompt:  NewPrompter(strings.NewReader("list\nlogout\nlist\n"), &out2),
		Out:     &out2,
	}
	if err := sh2.Session.Load(); err != nil {
		t.Fatal(err)
	}
	sh2.Run(context.Background())

	got = out2.String()
	if !strings.Contains(got, "Write report") || !strings.Contains(got, "Logged out") {
		t.Errorf("unexpected output:\n%s", got)
	}
	if strings.Count(got, "Not logged in") != 1 {
		t.Errorf("expected list after logout to fail:\n%s", got)
	}
}
