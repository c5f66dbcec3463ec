package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/atinyakov/taskkeeper/internal/models"
)

// Shell is the interactive command loop of the terminal client.
type Shell struct {
	API     *API
	Session *LocalSession
	Prompt  *Prompter
	Out     io.Writer
}

const help = "Available commands: help, register, login, logout, list, add, edit <id>, done <id>, rm <id>, item <taskId>, items <taskId>, rmitem <id>, exit"

// Run reads commands until exit or end of input.
func (s *Shell) Run(ctx context.Context) {
	if s.Session.Valid(time.Now()) {
		s.API.Token = s.Session.Token
		fmt.Fprintf(s.Out, "Logged in as %s\n", s.Session.Email)
	}

	for {
		line, ok := s.Prompt.Ask("taskkeeper> ")
		if !ok {
			return
		}
		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}
		if s.Exec(ctx, args) {
			return
		}
	}
}

// Exec runs one command and reports whether the shell should stop.
func (s *Shell) Exec(ctx context.Context, args []string) (quit bool) {
	var err error
	switch args[0] {
	case "help":
		fmt.Fprintln(s.Out, help)
	case "register", "login":
		err = s.authenticate(ctx, args[0] == "register")
	case "logout":
		s.API.Token = ""
		err = s.Session.Clear()
		if err == nil {
			fmt.Fprintln(s.Out, "Logged out")
		}
	case "list":
		err = s.list(ctx)
	case "add":
		in := s.Prompt.PromptForTask()
		var t *models.Task
		t, err = s.API.CreateTask(ctx, in.Title, in.Description, in.Due)
		if err == nil {
			fmt.Fprintf(s.Out, "Task %d created\n", t.ID)
		}
	case "edit", "done", "rm", "item", "items", "rmitem":
		if len(args) < 2 {
			fmt.Fprintf(s.Out, "Usage: %s <id>\n", args[0])
			return false
		}
		id, perr := strconv.ParseInt(args[1], 10, 64)
		if perr != nil {
			fmt.Fprintf(s.Out, "Invalid id %q\n", args[1])
			return false
		}
		err = s.withID(ctx, args[0], id)
	case "exit":
		fmt.Fprintln(s.Out, "Bye")
		return true
	default:
		fmt.Fprintln(s.Out, "Unknown command. Type 'help' for a list of commands.")
	}

	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
			fmt.Fprintln(s.Out, "Not logged in or session expired. Use 'login'.")
			return false
		}
		fmt.Fprintln(s.Out, "Error:", err)
	}
	return false
}

func (s *Shell) authenticate(ctx context.Context, register bool) error {
	email, _ := s.Prompt.Ask("Email: ")
	var name string
	if register {
		name, _ = s.Prompt.Ask("Display name: ")
	}
	password, _ := s.Prompt.Ask("Password: ")

	var (
		sess *Session
		err  error
	)
	if register {
		sess, err = s.API.Register(ctx, email, name, password)
	} else {
		sess, err = s.API.Login(ctx, email, password)
	}
	if err != nil {
		return err
	}

	s.API.Token = sess.Token
	s.Session.Set(sess.Token, sess.ExpiresAt, sess.User.Email, sess.User.ID)
	if err := s.Session.Save(); err != nil {
		return err
	}
	fmt.Fprintf(s.Out, "Logged in as %s\n", sess.User.Email)
	return nil
}

func (s *Shell) list(ctx context.Context) error {
	tasks, err := s.API.Dashboard(ctx)
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		fmt.Fprintln(s.Out, "No tasks")
		return nil
	}
	for _, t := range tasks {
		mark := " "
		if t.Completed {
			mark = "x"
		}
		fmt.Fprintf(s.Out, "[%s] %d %s (due %s)\n", mark, t.ID, t.Title, t.DueAt.Format(time.DateOnly))
		for _, it := range t.Items {
			fmt.Fprintf(s.Out, "      - %d %s\n", it.ID, it.Title)
		}
	}
	return nil
}

func (s *Shell) withID(ctx context.Context, cmd string, id int64) error {
	switch cmd {
	case "edit":
		fields := s.Prompt.PromptEditTask()
		if len(fields) == 0 {
			fmt.Fprintln(s.Out, "Nothing to change")
			return nil
		}
		if _, err := s.API.UpdateTask(ctx, id, fields); err != nil {
			return err
		}
		fmt.Fprintln(s.Out, "Task updated")
	case "done":
		if _, err := s.API.UpdateTask(ctx, id, map[string]any{"completed": true}); err != nil {
			return err
		}
		fmt.Fprintln(s.Out, "Task completed")
	case "rm":
		if err := s.API.DeleteTask(ctx, id); err != nil {
			return err
		}
		fmt.Fprintln(s.Out, "Task deleted")
	case "item":
		title, _ := s.Prompt.Ask("Item title: ")
		desc, _ := s.Prompt.Ask("Item description (optional): ")
		it, err := s.API.CreateItem(ctx, id, title, desc)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.Out, "Item %d created\n", it.ID)
	case "items":
		items, err := s.API.Items(ctx, id)
		if err != nil {
			return err
		}
		for _, it := range items {
			fmt.Fprintf(s.Out, "%d %s %s\n", it.ID, it.Title, it.Description)
		}
	case "rmitem":
		if err := s.API.DeleteItem(ctx, id); err != nil {
			return err
		}
		fmt.Fprintln(s.Out, "Item deleted")
	}
	return nil
}
