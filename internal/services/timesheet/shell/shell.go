// Package shell is the line oriented command interpreter over a timesheet session
package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"shiftlog/internal/adapters/source/csvfile"
	"shiftlog/internal/services/timesheet/domain"
)

// Prompt is printed before every command
const Prompt = "> "

// Intro is printed once when a session starts
const Intro = "Welcome\n Enter 'help' for more information\n to exit type ctrl + C"

// Farewell is printed when the session ends
const Farewell = "ending session..."

const helpText = `Available commands (for help about a specific command enter 'help <command>')
  load <file.csv>       load a csv file, notify expired employees, show all
  show                  show every employee in the session
  expired [threshold]   show employees at or above threshold hours
  notify [threshold]    notify employees at or above threshold hours
  reset                 discard the session
  help [command]        show this help
  exit | quit           end the session`

var commandHelp = map[string]string{
	"load":    "load <file.csv>: read the file into the session, notify expired employees, show all",
	"show":    "show: print every employee in the session",
	"expired": "expired [threshold]: print employees whose hours reached threshold",
	"notify":  "notify [threshold]: send the notification to employees whose hours reached threshold",
	"reset":   "reset: discard every employee in the session",
	"help":    "help [command]: describe commands",
	"exit":    "exit: end the session",
	"quit":    "quit: end the session",
}

// Shell dispatches commands to a session service and writes results to out
type Shell struct {
	svc domain.ServicePort
	out io.Writer
}

// New returns a shell over svc
func New(svc domain.ServicePort, out io.Writer) *Shell {
	if svc == nil {
		panic("shell requires a non nil ServicePort")
	}
	return &Shell{svc: svc, out: out}
}

// Run prints the intro and executes lines from in until exit, EOF or ctx is done
func (s *Shell) Run(ctx context.Context, in io.Reader) error {
	s.println(Intro)
	sc := bufio.NewScanner(in)
	for {
		if ctx.Err() != nil {
			s.println(Farewell)
			return nil
		}
		s.print(Prompt)
		if !sc.Scan() {
			s.println("")
			s.println(Farewell)
			return sc.Err()
		}
		if stop := s.Exec(ctx, sc.Text()); stop {
			return nil
		}
	}
}

// Exec runs one command line and reports whether the session should end
func (s *Shell) Exec(ctx context.Context, line string) bool {
	cmd, args, _ := strings.Cut(strings.TrimSpace(line), " ")
	args = strings.TrimSpace(args)

	switch strings.ToLower(cmd) {
	case "":
	case "load":
		s.load(ctx, args)
	case "show":
		s.show(s.svc.Employees(ctx))
	case "expired":
		t, ok := s.threshold(args)
		if ok {
			s.show(s.svc.Expired(ctx, t))
		}
	case "notify":
		t, ok := s.threshold(args)
		if ok {
			s.notify(ctx, t)
		}
	case "reset":
		s.svc.Reset(ctx)
		s.println("session reset")
	case "help", "?":
		s.help(args)
	case "exit", "quit", "eof":
		s.println(Farewell)
		return true
	default:
		s.println("Command does not exist")
	}
	return false
}

func (s *Shell) load(ctx context.Context, args string) {
	path, err := csvfile.CheckPath(args)
	if err != nil {
		s.println("file does not valid")
		return
	}
	res, err := s.svc.Load(ctx, path)
	for _, d := range res.Ingest.Diagnostics {
		s.printf("Unable to create employee from row %d: %s\n", d.RowIndex, d.Message)
	}
	if err != nil {
		s.println(err.Error())
		return
	}
	if res.Notify != nil && len(res.Notify.Delivered) > 0 {
		s.println("emails were sent to")
		for _, a := range res.Notify.Delivered {
			s.println("  " + a)
		}
	}
	if res.NotifyError != "" {
		s.println("notification failed: " + res.NotifyError)
	}
	s.show(s.svc.Employees(ctx))
}

func (s *Shell) notify(ctx context.Context, threshold int) {
	res, err := s.svc.NotifyExpired(ctx, threshold)
	if err != nil {
		s.println("notification failed: " + err.Error())
	}
	if len(res.Addresses) == 0 {
		s.println("nobody to notify")
		return
	}
	for _, a := range res.Delivered {
		s.println("sent to " + a)
	}
	for a, reply := range res.Rejected {
		s.printf("refused %s: %s\n", a, reply)
	}
}

func (s *Shell) show(items []domain.Aggregate) {
	for _, a := range items {
		s.println(a.String())
	}
}

// threshold parses an optional positive threshold; 0 selects the session default
func (s *Shell) threshold(args string) (int, bool) {
	if args == "" {
		return 0, true
	}
	n, err := strconv.Atoi(strings.Fields(args)[0])
	if err != nil || n < 1 {
		s.println("threshold must be a positive integer")
		return 0, false
	}
	return n, true
}

func (s *Shell) help(args string) {
	if args != "" {
		if h, ok := commandHelp[strings.ToLower(strings.Fields(args)[0])]; ok {
			s.println(h)
			return
		}
		s.println("Command does not exist")
		return
	}
	s.println(helpText)
}

func (s *Shell) print(v string)   { _, _ = io.WriteString(s.out, v) }
func (s *Shell) println(v string) { _, _ = io.WriteString(s.out, v+"\n") }
func (s *Shell) printf(format string, a ...any) {
	_, _ = fmt.Fprintf(s.out, format, a...)
}
