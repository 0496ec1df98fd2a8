// Package main runs the terminal client for the event registration platform.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/skatefest/client/config"
	"github.com/skatefest/client/internal/api"
	"github.com/skatefest/client/internal/auth"
	"github.com/skatefest/client/internal/modal"
	"github.com/skatefest/client/internal/registration"
	"github.com/skatefest/client/pkg/storage"
)

const usage = `usage: client <command> [args]

commands:
  events              list current events
  event <id>          show one event
  previous            list previous events
  signup              create an account
  login               log in and persist the session
  logout              clear the session
  whoami              show the logged-in user
  my                  list your registrations
  register <id>       register for an event
`

func main() {
	logger := newLogger()
	defer logger.Sync()

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Storage.StatePath), 0o755); err != nil {
		logger.Fatal("state dir", zap.Error(err))
	}
	store, err := storage.Open(cfg.Storage.StatePath, logger)
	if err != nil {
		logger.Fatal("open state store", zap.Error(err))
	}
	defer store.Close()

	session, err := auth.NewSession(store, logger)
	if err != nil {
		logger.Fatal("restore session", zap.Error(err))
	}

	client := api.NewClient(
		cfg.API.BaseURL,
		time.Duration(cfg.API.TimeoutSeconds)*time.Second,
		session,
		logger,
	)

	app := &app{
		cfg:     cfg,
		logger:  logger,
		session: session,
		client:  client,
		stdin:   bufio.NewReader(os.Stdin),
	}

	ctx := context.Background()
	if err := app.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	logger, _ := config.Build()
	return logger
}

type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	session *auth.Session
	client  *api.Client
	stdin   *bufio.Reader
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "events":
		return a.listEvents(ctx)
	case "event":
		if len(args) < 1 {
			return fmt.Errorf("event id is required")
		}
		return a.showEvent(ctx, args[0])
	case "previous":
		return a.listPrevious(ctx)
	case "signup":
		return a.signup(ctx)
	case "login":
		return a.login(ctx)
	case "logout":
		return a.session.Logout()
	case "whoami":
		return a.whoami()
	case "my":
		return a.myRegistrations(ctx)
	case "register":
		if len(args) < 1 {
			return fmt.Errorf("event id is required")
		}
		return a.register(ctx, args[0])
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func (a *app) listEvents(ctx context.Context) error {
	events, err := a.client.ListEvents(ctx)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tLOCATION\tSTARTS\tTEAM")
	for _, ev := range events {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%v\n",
			ev.ID, ev.Title, ev.Location, ev.StartDate.Format("2006-01-02"), ev.IsTeamEvent)
	}
	return w.Flush()
}

func (a *app) showEvent(ctx context.Context, id string) error {
	ev, err := a.client.GetEvent(ctx, id)
	if err != nil {
		return err
	}
	fmt.Println(ev.Title)
	fmt.Println(ev.Description)
	fmt.Printf("Venue: %s, %s\n", ev.Venue, ev.Location)
	fmt.Printf("Dates: %s - %s\n", ev.StartDate.Format("2006-01-02"), ev.EndDate.Format("2006-01-02"))
	if ev.IsTeamEvent {
		fmt.Printf("Team event, up to %d members, ₹%.0f per team\n", ev.MaxTeamSize, ev.PricePerTeam)
	} else {
		fmt.Printf("Individual event, ₹%.0f per person\n", ev.PricePerPerson)
	}
	return nil
}

func (a *app) listPrevious(ctx context.Context) error {
	events, err := a.client.ListPreviousEvents(ctx)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDATE")
	for _, ev := range events {
		fmt.Fprintf(w, "%s\t%s\n", ev.Name, ev.Date.Format("2006-01-02"))
	}
	return w.Flush()
}

func (a *app) signup(ctx context.Context) error {
	req := api.SignUpRequest{
		Name:     a.prompt("Name"),
		Email:    a.prompt("Email"),
		Phone:    a.prompt("Phone"),
		Password: a.prompt("Password"),
	}
	msg, err := a.client.SignUp(ctx, req)
	if err != nil {
		return err
	}
	fmt.Println(msg)
	return nil
}

func (a *app) login(ctx context.Context) error {
	email := a.prompt("Email")
	password := a.prompt("Password")
	token, err := a.client.Login(ctx, email, password)
	if err != nil {
		return err
	}
	if err := a.session.Login(token); err != nil {
		return err
	}
	fmt.Println("Logged in.")
	return nil
}

func (a *app) whoami() error {
	user, ok := a.session.Current()
	if !ok {
		fmt.Println("Not logged in.")
		return nil
	}
	fmt.Printf("%s <%s>\n", user.FullName, user.Email)
	return nil
}

func (a *app) myRegistrations(ctx context.Context) error {
	regs, err := a.client.MyRegistrations(ctx)
	if err != nil {
		return err
	}
	if len(regs) == 0 {
		fmt.Println("No registered events found.")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "EVENT\tDATE\tSTATUS\tPARTICIPANT")
	for _, r := range regs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s %s\n",
			r.EventName, r.StartDate.Format("2006-01-02"), r.Status, r.FirstName, r.LastName)
	}
	return w.Flush()
}

func (a *app) register(ctx context.Context, eventID string) error {
	ev, err := a.client.GetEvent(ctx, eventID)
	if err != nil {
		return err
	}

	engine := registration.NewEngine(a.client, a.session, a.logger)
	m := modal.New(newTermHost(), engine, a.logger)
	m.AckDelay = time.Duration(a.cfg.UI.AckDelayMillis) * time.Millisecond

	if err := m.OpenFor(ctx, ev); err != nil {
		return err
	}

	if engine.AlreadyRegistered() {
		fmt.Printf("You are already registered for %s.\n", ev.Title)
		return m.Close(modal.ReasonCloseButton)
	}

	fmt.Printf("Register for %s\n", ev.Title)

	scalars := []struct {
		field registration.Field
		label string
	}{
		{registration.FieldCoachName, "Coach name"},
		{registration.FieldClubName, "Club name"},
		{registration.FieldGender, "Gender (male/female)"},
		{registration.FieldAgeGroup, "Age group"},
		{registration.FieldFirstName, "First name"},
		{registration.FieldMiddleName, "Middle name (optional)"},
		{registration.FieldLastName, "Last name"},
		{registration.FieldDOB, "Date of birth (YYYY-MM-DD)"},
		{registration.FieldDistrict, "District"},
		{registration.FieldCategory, "Category (quad/inline/beginner)"},
		{registration.FieldAadhaarNumber, "Aadhaar number"},
	}
	for _, s := range scalars {
		if err := engine.SetField(s.field, a.prompt(s.label)); err != nil {
			return err
		}
	}

	if ev.IsTeamEvent {
		if err := engine.SetField(registration.FieldTeamName, a.prompt("Team name")); err != nil {
			return err
		}
		for i := range engine.Draft().TeamMembers {
			if err := engine.SetMember(i, a.prompt(fmt.Sprintf("Member %d name", i+2))); err != nil {
				return err
			}
		}
	}

	imagePath := a.prompt("Aadhaar image path")
	data, err := os.ReadFile(imagePath)
	if err != nil {
		return fmt.Errorf("read aadhaar image: %w", err)
	}
	if err := engine.SetDocument(filepath.Base(imagePath), data); err != nil {
		return err
	}

	fmt.Printf("Submit & pay ₹%.0f\n", ev.Price())

	for {
		if err := engine.Submit(ctx); err != nil {
			if errors.Is(err, registration.ErrAuthRequired) {
				fmt.Println("Please login first.")
				return m.Close(modal.ReasonCloseButton)
			}
			return err
		}

		state := engine.State()
		if state.Phase == registration.PhaseSucceeded {
			fmt.Println("Registered successfully!")
			return m.CloseOnSuccess()
		}

		fmt.Println("Registration failed:", state.Message)
		if strings.ToLower(a.prompt("Retry? (y/n)")) != "y" {
			return m.Close(modal.ReasonCloseButton)
		}
	}
}

func (a *app) prompt(label string) string {
	fmt.Printf("%s: ", label)
	line, _ := a.stdin.ReadString('\n')
	return strings.TrimRight(line, "\r\n")
}
