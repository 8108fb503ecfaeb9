// Package cli is the hrctl command shell: one-shot commands or an
// interactive prompt over a client.Client.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"hrhub/internal/client"
	"hrhub/internal/gate"
	"hrhub/internal/model"
)

// ErrUnknownCommand is returned for commands hrctl does not know.
var ErrUnknownCommand = errors.New("unknown command")

const usage = `Commands:
  register                   create an account and sign in
  login                      sign in
  logout                     sign out and forget the session
  whoami                     show the signed-in profile
  nav                        list the pages your role can open
  open <route>               check whether a page may be opened
  employees [dept] [status]  list employees
  leave [status]             list leave requests
  attendance [YYYY-MM-DD]    list attendance, for one day if given
  dashboard                  show headcount, leave and attendance (and payroll for admins)
  help | exit`

type App struct {
	client *client.Client
	reader *bufio.Reader
	out    io.Writer
}

func NewApp(c *client.Client, in io.Reader, out io.Writer) *App {
	return &App{client: c, reader: bufio.NewReader(in), out: out}
}

// Run executes args as a single command, or starts the prompt when args is empty.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return a.repl(ctx)
	}
	return a.exec(ctx, args[0], args[1:])
}

func (a *App) repl(ctx context.Context) error {
	fmt.Fprintln(a.out, "hrctl (type 'help' for commands)")
	for {
		fmt.Fprintf(a.out, "hrctl%s> ", a.status())
		line, err := a.reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		parts := strings.Fields(line)
		if len(parts) > 0 {
			switch parts[0] {
			case "exit", "quit":
				return nil
			default:
				if cmdErr := a.exec(ctx, parts[0], parts[1:]); cmdErr != nil {
					fmt.Fprintln(a.out, "error:", Describe(cmdErr))
				}
			}
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(a.out)
			return nil
		}
	}
}

// Describe turns err into the text shown to the user.
func Describe(err error) string {
	switch {
	case errors.Is(err, client.ErrSessionExpired):
		return client.SessionExpiredMessage
	case errors.Is(err, gate.ErrUnauthenticated):
		return "Not signed in, run 'hrctl login' first"
	}
	return err.Error()
}

func (a *App) status() string {
	p, ok := a.client.Session().Current().Profile()
	if !ok {
		return ""
	}
	return fmt.Sprintf(" (%s %s)", p.Email, p.Role)
}

func (a *App) exec(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "help":
		fmt.Fprintln(a.out, usage)
		return nil
	case "register":
		return a.register(ctx)
	case "login":
		return a.login(ctx)
	case "logout":
		if err := a.client.Logout(ctx); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Signed out")
		return nil
	case "whoami":
		return a.whoami(ctx)
	case "nav":
		return a.nav(ctx)
	case "open":
		if len(args) != 1 {
			return errors.New("usage: open <route>")
		}
		return a.open(args[0])
	case "employees":
		return a.employees(ctx, args)
	case "leave":
		return a.leave(ctx, args)
	case "attendance":
		return a.attendance(ctx, args)
	case "dashboard":
		return a.dashboard(ctx)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownCommand, cmd)
	}
}

func (a *App) register(ctx context.Context) error {
	name, err := GetSimpleText(a.reader, "Name", a.out)
	if err != nil {
		return err
	}
	email, err := GetSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	p, err := a.client.Register(ctx, name, email, password)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Welcome, %s (%s)\n", p.Name, p.Role)
	return nil
}

func (a *App) login(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	p, err := a.client.Login(ctx, email, password)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Signed in as %s (%s)\n", p.Email, p.Role)
	return nil
}

func (a *App) whoami(ctx context.Context) error {
	if !a.client.Session().Current().IsAuthenticated() {
		fmt.Fprintln(a.out, "Not signed in")
		return nil
	}
	p, err := a.client.Me(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s <%s> %s\n", p.Name, p.Email, p.Role)
	return nil
}

func (a *App) nav(ctx context.Context) error {
	items, err := a.client.Navigation(ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	for _, item := range items {
		fmt.Fprintf(tw, "%s\t%s\n", item.Route, item.Label)
	}
	return tw.Flush()
}

func (a *App) open(route string) error {
	d := a.client.Navigate(route)
	switch d.Outcome {
	case gate.Allow:
		fmt.Fprintf(a.out, "%s: allowed\n", route)
	default:
		fmt.Fprintf(a.out, "%s: %s -> %s\n", route, d.Outcome, d.Target)
	}
	return nil
}

func (a *App) employees(ctx context.Context, args []string) error {
	var filters model.EmployeeFilters
	if len(args) > 0 && args[0] != "-" {
		filters.Department = &args[0]
	}
	if len(args) > 1 {
		filters.Status = &args[1]
	}
	employees, err := a.client.Employees(ctx, filters)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tDEPARTMENT\tPOSITION\tSTATUS\tSALARY")
	for _, e := range employees {
		salary := "-"
		if e.Salary != nil {
			salary = cents(*e.Salary)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n", e.ID, e.Name, e.Email, e.Department, e.Position, e.Status, salary)
	}
	return tw.Flush()
}

func (a *App) leave(ctx context.Context, args []string) error {
	var filters model.LeaveFilters
	if len(args) > 0 {
		filters.Status = &args[0]
	}
	leaves, err := a.client.Leaves(ctx, filters)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tEMPLOYEE\tFROM\tTO\tSTATUS\tREASON")
	for _, l := range leaves {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\t%s\n", l.ID, l.EmployeeID,
			l.StartDate.Format(time.DateOnly), l.EndDate.Format(time.DateOnly), l.Status, l.Reason)
	}
	return tw.Flush()
}

func (a *App) attendance(ctx context.Context, args []string) error {
	var filters model.AttendanceFilters
	if len(args) > 0 {
		day, err := time.Parse(time.DateOnly, args[0])
		if err != nil {
			return errors.New("usage: attendance [YYYY-MM-DD]")
		}
		filters.Date = &day
	}
	records, err := a.client.Attendance(ctx, filters)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tEMPLOYEE\tSTATUS")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", r.Date.Format(time.DateOnly), r.EmployeeID, r.Status)
	}
	return tw.Flush()
}

func cents(v int64) string {
	return fmt.Sprintf("%d.%02d", v/100, v%100)
}

func (a *App) dashboard(ctx context.Context) error {
	stats, err := a.client.Dashboard(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Employees: %d\n", stats.TotalEmployees)
	for status, n := range stats.ByStatus {
		fmt.Fprintf(a.out, "  %s: %d\n", status, n)
	}
	fmt.Fprintf(a.out, "Pending leave requests: %d\n", stats.PendingLeaves)
	fmt.Fprintf(a.out, "Present today: %d, absent today: %d\n", stats.PresentToday, stats.AbsentToday)
	if stats.MonthlyPayroll != nil {
		fmt.Fprintf(a.out, "Monthly payroll: %s\n", cents(*stats.MonthlyPayroll))
	}
	return nil
}
