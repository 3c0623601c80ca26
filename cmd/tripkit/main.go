// Package main is the entry point for the tripkit CLI.
// Its sole responsibility is wiring dependencies together and dispatching the
// subcommand. No business logic belongs here.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"text/tabwriter"
	"time"

	"github.com/lmittmann/tint"
	"github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/tripkit/internal/api"
	"github.com/pkordes/tripkit/internal/app"
	"github.com/pkordes/tripkit/internal/config"
	"github.com/pkordes/tripkit/internal/domain"
	"github.com/pkordes/tripkit/internal/planner"
	"github.com/pkordes/tripkit/internal/querycache"
	"github.com/pkordes/tripkit/internal/session"
)

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	// tint renders slog records human-readably on stderr; stdout stays
	// reserved for command output.
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      logLevel,
		TimeFormat: time.Kitchen,
	}))
	slog.SetDefault(logger)

	// --- Session ----------------------------------------------------------
	sessions := session.NewStore(nil, session.NewFileStore(cfg.StateFile))

	// --- Transport --------------------------------------------------------
	// The coordinator reacts to a rejected credential exactly once per
	// session: clear the stored session, then tell the user to log in again.
	coordinator := app.NewCoordinator(sessions, app.NavigatorFunc(func() {
		fmt.Fprintln(os.Stderr, "Session expired. Run `tripkit login` to sign in again.")
	}), logger)
	client := api.NewClient(cfg.APIBaseURL, &http.Client{Timeout: cfg.HTTPTimeout}, sessions, coordinator, logger)
	sessions.SetAuthenticator(client)

	if err := sessions.Restore(); err != nil {
		slog.Warn("could not restore session", "error", err)
	}

	// --- Planner ----------------------------------------------------------
	trips := planner.New(client, querycache.New(logger))

	// --- Dispatch ---------------------------------------------------------
	cmd, args := app.ParseCommand(os.Args[1:])
	ctx := context.Background()

	if err := run(ctx, cmd, args, sessions, trips); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd app.Command, args []string, sessions *session.Store, trips *planner.Planner) error {
	switch cmd {
	case app.CommandLogin:
		return runLogin(ctx, args, sessions)
	case app.CommandLogout:
		return runLogout(sessions)
	case app.CommandSignup:
		return runSignup(ctx, args, sessions)
	case app.CommandWhoami:
		return runWhoami(sessions)
	case app.CommandTrips:
		return runTrips(ctx, args, trips)
	case app.CommandActivities:
		return runActivities(ctx, args, trips)
	case app.CommandCosts:
		return runCosts(ctx, args, trips)
	default:
		printUsage()
		return nil
	}
}

// ---- auth commands ---------------------------------------------------------

func runLogin(ctx context.Context, args []string, sessions *session.Store) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	user, err := sessions.Login(ctx, domain.LoginRequest{Email: *email, Password: *password})
	if err != nil {
		return err
	}
	fmt.Printf("Logged in as %s <%s>\n", user.FullName(), user.Email)
	return nil
}

func runLogout(sessions *session.Store) error {
	if err := sessions.Logout(); err != nil {
		return err
	}
	fmt.Println("Logged out.")
	return nil
}

func runSignup(ctx context.Context, args []string, sessions *session.Store) error {
	fs := flag.NewFlagSet("signup", flag.ExitOnError)
	first := fs.String("first-name", "", "first name")
	last := fs.String("last-name", "", "last name")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	resp, err := sessions.Signup(ctx, domain.SignupRequest{
		FirstName: *first,
		LastName:  *last,
		Email:     *email,
		Password:  *password,
	})
	if err != nil {
		return err
	}
	fmt.Println(resp.Message)
	return nil
}

func runWhoami(sessions *session.Store) error {
	user, ok := sessions.Current()
	if !ok {
		fmt.Println("Not logged in.")
		return nil
	}
	fmt.Printf("%s <%s> (%s)\n", user.FullName(), user.Email, user.Role)
	return nil
}

// ---- trips -----------------------------------------------------------------

func runTrips(ctx context.Context, args []string, trips *planner.Planner) error {
	verb := "list"
	if len(args) > 0 {
		verb = args[0]
		args = args[1:]
	}

	switch verb {
	case "list":
		fs := flag.NewFlagSet("trips list", flag.ExitOnError)
		page := fs.Int("page", 0, "zero-based page number")
		size := fs.Int("size", 10, "page size")
		if err := fs.Parse(args); err != nil {
			return err
		}
		result, err := trips.Trips(ctx, *page, *size)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTITLE\tDATES\tDESTINATION")
		for _, t := range result.Content {
			fmt.Fprintf(w, "%s\t%s\t%s – %s\t%s\n",
				t.ID, t.Title, t.StartDate.Format("2006-01-02"), t.EndDate.Format("2006-01-02"), t.Destination)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Printf("%d trip(s) total\n", result.TotalElements)
		return nil

	case "get":
		fs := flag.NewFlagSet("trips get", flag.ExitOnError)
		id := fs.String("id", "", "trip ID")
		if err := fs.Parse(args); err != nil {
			return err
		}
		trip, err := trips.Trip(ctx, *id)
		if err != nil {
			return err
		}
		printTrip(trip)
		return nil

	case "create", "update":
		fs := flag.NewFlagSet("trips "+verb, flag.ExitOnError)
		id := fs.String("id", "", "trip ID (update only)")
		title := fs.String("title", "", "trip title")
		start := fs.String("start", "", "start date (YYYY-MM-DD)")
		end := fs.String("end", "", "end date (YYYY-MM-DD)")
		destination := fs.String("destination", "", "destination")
		description := fs.String("description", "", "description")
		budget := fs.Float64("budget", 0, "budget, 0 for none")
		if err := fs.Parse(args); err != nil {
			return err
		}

		req := domain.TripCreateRequest{
			Title:       *title,
			Description: *description,
			Destination: *destination,
		}
		var err error
		if req.StartDate, err = parseDate(*start); err != nil {
			return fmt.Errorf("-start: %w", err)
		}
		if req.EndDate, err = parseDate(*end); err != nil {
			return fmt.Errorf("-end: %w", err)
		}
		if *budget > 0 {
			req.Budget = budget
		}

		var trip domain.Trip
		if verb == "create" {
			trip, err = trips.CreateTrip(ctx, req)
		} else {
			trip, err = trips.UpdateTrip(ctx, *id, req)
		}
		if err != nil {
			return err
		}
		printTrip(trip)
		return nil

	case "delete":
		fs := flag.NewFlagSet("trips delete", flag.ExitOnError)
		id := fs.String("id", "", "trip ID")
		if err := fs.Parse(args); err != nil {
			return err
		}
		if err := trips.DeleteTrip(ctx, *id); err != nil {
			return err
		}
		fmt.Println("Trip deleted.")
		return nil

	default:
		return fmt.Errorf("unknown trips subcommand %q (want list, get, create, update or delete)", verb)
	}
}

// ---- activities ------------------------------------------------------------

func runActivities(ctx context.Context, args []string, trips *planner.Planner) error {
	verb := "list"
	if len(args) > 0 {
		verb = args[0]
		args = args[1:]
	}

	switch verb {
	case "list":
		fs := flag.NewFlagSet("activities list", flag.ExitOnError)
		dayPlanID := fs.String("day", "", "day plan ID")
		if err := fs.Parse(args); err != nil {
			return err
		}
		activities, err := trips.Activities(ctx, *dayPlanID)
		if err != nil {
			return err
		}
		if len(activities) == 0 {
			fmt.Println("No activities planned.")
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTITLE\tTIME\tCATEGORY\tCOST\tDONE")
		for _, a := range activities {
			cost := ""
			if a.Cost != nil {
				cost = fmt.Sprintf("%.2f", *a.Cost)
			}
			done := ""
			if a.IsCompleted {
				done = "✓"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", a.ID, a.Title, a.StartTime, a.Category, cost, done)
		}
		return w.Flush()

	case "add", "update":
		fs := flag.NewFlagSet("activities "+verb, flag.ExitOnError)
		tripID := fs.String("trip", "", "trip ID")
		dayPlanID := fs.String("day", "", "day plan ID")
		id := fs.String("id", "", "activity ID (update only)")
		title := fs.String("title", "", "activity title")
		category := fs.String("category", "", "activity category")
		start := fs.String("start", "", "start time (HH:MM)")
		end := fs.String("end", "", "end time (HH:MM)")
		location := fs.String("location", "", "location")
		cost := fs.Float64("cost", 0, "cost, 0 for none")
		if err := fs.Parse(args); err != nil {
			return err
		}

		req := domain.ActivityCreateRequest{
			Title:     *title,
			Category:  domain.ActivityCategory(*category),
			StartTime: *start,
			EndTime:   *end,
			Location:  *location,
		}
		if *cost > 0 {
			req.Cost = cost
		}

		var activity domain.Activity
		var err error
		if verb == "add" {
			activity, err = trips.CreateActivity(ctx, *tripID, *dayPlanID, req)
		} else {
			activity, err = trips.UpdateActivity(ctx, *tripID, *dayPlanID, *id, req)
		}
		if err != nil {
			return err
		}
		fmt.Printf("%s: %s\n", activity.ID, activity.Title)
		return nil

	case "toggle":
		fs := flag.NewFlagSet("activities toggle", flag.ExitOnError)
		tripID := fs.String("trip", "", "trip ID")
		dayPlanID := fs.String("day", "", "day plan ID")
		id := fs.String("id", "", "activity ID")
		if err := fs.Parse(args); err != nil {
			return err
		}
		activity, err := trips.ToggleCompletion(ctx, *tripID, *dayPlanID, *id)
		if err != nil {
			return err
		}
		state := "planned"
		if activity.IsCompleted {
			state = "completed"
		}
		fmt.Printf("%s is now %s\n", activity.Title, state)
		return nil

	case "delete":
		fs := flag.NewFlagSet("activities delete", flag.ExitOnError)
		tripID := fs.String("trip", "", "trip ID")
		dayPlanID := fs.String("day", "", "day plan ID")
		id := fs.String("id", "", "activity ID")
		if err := fs.Parse(args); err != nil {
			return err
		}
		if err := trips.DeleteActivity(ctx, *tripID, *dayPlanID, *id); err != nil {
			return err
		}
		fmt.Println("Activity deleted.")
		return nil

	default:
		return fmt.Errorf("unknown activities subcommand %q (want list, add, update, toggle or delete)", verb)
	}
}

// ---- costs -----------------------------------------------------------------

func runCosts(ctx context.Context, args []string, trips *planner.Planner) error {
	fs := flag.NewFlagSet("costs", flag.ExitOnError)
	tripID := fs.String("trip", "", "trip ID")
	if err := fs.Parse(args); err != nil {
		return err
	}

	summary, err := trips.CostSummary(ctx, *tripID)
	if err != nil {
		return err
	}

	fmt.Printf("%s: %.2f total across %d activities (%d priced)\n",
		summary.Trip.Title, summary.Breakdown.TotalCost,
		summary.Breakdown.TotalActivities, summary.Breakdown.ActivitiesWithCost)
	for _, category := range domain.Categories() {
		if amount, ok := summary.Breakdown.CostByCategory[category]; ok {
			fmt.Printf("  %-16s %10.2f\n", category, amount)
		}
	}
	if !summary.HasBudget {
		fmt.Println("No budget set.")
		return nil
	}
	fmt.Printf("Budget: %.2f (%.1f%% used, %.2f remaining)", *summary.Trip.Budget, summary.UsedPercent, summary.Remaining)
	switch summary.Status {
	case planner.BudgetOver:
		fmt.Print("  OVER BUDGET")
	case planner.BudgetWarning:
		fmt.Print("  approaching budget")
	}
	fmt.Println()
	return nil
}

// ---- helpers ---------------------------------------------------------------

func printTrip(t domain.Trip) {
	fmt.Printf("%s\n  %s – %s", t.Title, t.StartDate.Format("2006-01-02"), t.EndDate.Format("2006-01-02"))
	if t.Destination != "" {
		fmt.Printf(", %s", t.Destination)
	}
	fmt.Printf("\n  ID: %s\n", t.ID)
	if t.Description != "" {
		fmt.Printf("  %s\n", t.Description)
	}
	if t.Budget != nil {
		fmt.Printf("  Budget: %.2f\n", *t.Budget)
	}
	if len(t.Tags) > 0 {
		fmt.Print("  Tags:")
		for _, tag := range t.Tags {
			fmt.Printf(" %s", tag.Name)
		}
		fmt.Println()
	}
}

func parseDate(s string) (types.Date, error) {
	if s == "" {
		return types.Date{}, fmt.Errorf("date is required (YYYY-MM-DD)")
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return types.Date{}, fmt.Errorf("%q is not a valid date (want YYYY-MM-DD)", s)
	}
	return types.Date{Time: t}, nil
}

func printUsage() {
	fmt.Print(`tripkit — trip planner client

Usage:
  tripkit login -email <email> -password <password>
  tripkit signup -first-name <name> -last-name <name> -email <email> -password <password>
  tripkit logout
  tripkit whoami
  tripkit trips [list|get|create|update|delete] [flags]
  tripkit activities [list|add|update|toggle|delete] [flags]
  tripkit costs -trip <trip ID>

Environment:
  TRIPKIT_API_URL       API base URL (default http://localhost:8080/api)
  TRIPKIT_STATE_FILE    session state file (default under the OS config dir)
  TRIPKIT_HTTP_TIMEOUT  per-request timeout (default 30s)
  LOG_LEVEL             debug, info, warn or error (default info)
`)
}
