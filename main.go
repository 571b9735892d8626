package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"betyaClient/internal/api"
	"betyaClient/internal/session"
	"betyaClient/internal/transport"
	"betyaClient/internal/types/challenge"
	"betyaClient/services"
)

const usage = `betya <command> [flags]

Commands:
  login      -user <name> -pass <password>
  register   -user <name> -email <email> -pass <password>
  logout
  home
  friends    search -q <query> | add -id <user> | accept -id <relation> | reject -id <relation>
  challenge  show -id <n> | create -file <json> | delete -id <n> |
             accept -id <membership> -challenge <n> | reject -id <membership>
  toggle     task|subtask -challenge <n> -id <n>
  chart      -challenge <n> -task <n>
`

func main() {
	logger := newLogger()
	defer logger.Sync()

	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file found")
	}

	baseURL := envOr("BETYA_API_URL", "http://127.0.0.1:8000")
	statePath := envOr("BETYA_STATE_DB", ".betya.db")

	store, err := session.OpenSQLite(statePath)
	if err != nil {
		logger.Fatal("could not open state db", zap.String("path", statePath), zap.Error(err))
	}
	defer store.Close()

	transport.InitMetrics()
	if addr := os.Getenv("METRICS_ADDR"); addr != "" {
		go serveMetrics(addr, logger)
	}

	tokenFn := func(ctx context.Context) (string, bool) {
		sess, err := store.Load(ctx)
		if err != nil {
			return "", false
		}
		return sess.Token, true
	}
	httpClient := &http.Client{
		Timeout:   15 * time.Second,
		Transport: transport.New(nil, tokenFn, logger),
	}
	apiClient := api.New(baseURL, httpClient, logger)

	app := &cli{
		auth:       services.NewAuthService(apiClient, store, logger),
		home:       services.NewHomeService(apiClient, store, logger),
		friends:    services.NewFriendService(apiClient, logger),
		challenges: services.NewChallengeService(apiClient, logger),
		progress:   services.NewProgressService(apiClient, store, logger),
	}

	if err := app.run(context.Background(), os.Args[1:]); err != nil {
		if errors.Is(err, api.ErrSessionExpired) {
			fmt.Fprintln(os.Stderr, "Your session has expired. Please log in again.")
		} else {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

type cli struct {
	auth       *services.AuthService
	home       *services.HomeService
	friends    *services.FriendService
	challenges *services.ChallengeService
	progress   *services.ProgressService
}

func (c *cli) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	switch args[0] {
	case "login":
		return c.runLogin(ctx, args[1:])
	case "register":
		return c.runRegister(ctx, args[1:])
	case "logout":
		if err := c.auth.Logout(ctx); err != nil {
			return err
		}
		fmt.Println("Signed out.")
		return nil
	case "home":
		return c.runHome(ctx)
	case "friends":
		return c.runFriends(ctx, args[1:])
	case "challenge":
		return c.runChallenge(ctx, args[1:])
	case "toggle":
		return c.runToggle(ctx, args[1:])
	case "chart":
		return c.runChart(ctx, args[1:])
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
		return nil
	}
}

func (c *cli) runLogin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	username := fs.String("user", "", "username")
	password := fs.String("pass", "", "password")
	fs.Parse(args)

	signedIn, err := c.auth.Login(ctx, *username, *password)
	if err != nil {
		return err
	}
	fmt.Printf("Signed in as %s (id %d).\n", signedIn.Username, signedIn.ID)
	return nil
}

func (c *cli) runRegister(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	username := fs.String("user", "", "username")
	email := fs.String("email", "", "email")
	password := fs.String("pass", "", "password")
	fs.Parse(args)

	registered, err := c.auth.Register(ctx, *username, *email, *password)
	if err != nil {
		return err
	}
	fmt.Printf("Registered and signed in as %s (id %d).\n", registered.Username, registered.ID)
	return nil
}

func (c *cli) runHome(ctx context.Context) error {
	snap, err := c.home.Load(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Friends (%d):\n", len(snap.Friends))
	for _, f := range snap.Friends {
		fmt.Printf("  %d  %s\n", f.ID, f.Username)
	}
	fmt.Printf("Pending sent: %d, pending received: %d\n",
		len(snap.SentFriendRequests), len(snap.ReceivedFriendRequests))
	for _, r := range snap.ReceivedFriendRequests {
		fmt.Printf("  request %d from %s\n", r.RelationID, r.User.Username)
	}

	fmt.Printf("Challenges (%d):\n", len(snap.Challenges))
	for _, ch := range snap.Challenges {
		window := ""
		if ch.TimeBound {
			window = fmt.Sprintf("  [%s -> %s]", strOr(ch.StartDate, "-"), strOr(ch.EndDate, "-"))
		}
		fmt.Printf("  %d  %s%s\n", ch.ID, ch.Name, window)
	}
	for _, inv := range snap.ReceivedInvitations {
		fmt.Printf("  invitation %d: %q from %s\n", inv.MembershipID, inv.Name, inv.AuthorName)
	}

	if stats, err := c.home.Stats(ctx); err == nil {
		fmt.Printf("Stats: %d friends, %d pending invitations\n", stats.FriendCount, stats.PendingCount)
	}

	for resource, err := range snap.Failed {
		fmt.Fprintf(os.Stderr, "warning: %s could not be loaded: %v\n", resource, err)
	}
	return nil
}

func (c *cli) runFriends(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("friends: missing subcommand")
	}
	fs := flag.NewFlagSet("friends "+args[0], flag.ExitOnError)
	query := fs.String("q", "", "search query")
	id := fs.Int("id", 0, "user or relation id")
	fs.Parse(args[1:])

	switch args[0] {
	case "search":
		found, err := c.friends.Search(ctx, *query)
		if err != nil {
			return err
		}
		for _, u := range found {
			fmt.Printf("  %d  %s  %s\n", u.ID, u.Username, u.Email)
		}
		return nil
	case "add":
		if _, err := c.friends.SendRequest(ctx, *id); err != nil {
			return err
		}
		fmt.Println("Friend request sent.")
		return nil
	case "accept":
		friends, err := c.friends.Accept(ctx, *id)
		if errors.Is(err, api.ErrInvitationHandled) {
			fmt.Println("That request was already handled.")
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Printf("Accepted. You now have %d friends.\n", len(friends))
		return nil
	case "reject":
		err := c.friends.Reject(ctx, *id)
		if errors.Is(err, api.ErrInvitationHandled) {
			fmt.Println("That request was already handled.")
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Println("Request rejected.")
		return nil
	default:
		return fmt.Errorf("friends: unknown subcommand %q", args[0])
	}
}

func (c *cli) runChallenge(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("challenge: missing subcommand")
	}
	fs := flag.NewFlagSet("challenge "+args[0], flag.ExitOnError)
	id := fs.Int("id", 0, "challenge or membership id")
	challengeID := fs.Int("challenge", 0, "challenge id (for accept)")
	file := fs.String("file", "", "path to a JSON challenge definition")
	fs.Parse(args[1:])

	switch args[0] {
	case "show":
		return c.showChallenge(ctx, *id)
	case "create":
		raw, err := os.ReadFile(*file)
		if err != nil {
			return fmt.Errorf("read definition: %w", err)
		}
		var req challenge.CreateRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			return fmt.Errorf("parse definition: %w", err)
		}
		created, err := c.challenges.Create(ctx, req)
		if err != nil {
			return err
		}
		fmt.Printf("Created challenge %d: %s\n", created.ID, created.Name)
		return nil
	case "delete":
		message, deleted, err := c.challenges.Delete(ctx, *id)
		if err != nil {
			return err
		}
		if !deleted {
			fmt.Println(message)
			return nil
		}
		fmt.Println("Challenge deleted.")
		return nil
	case "accept":
		accepted, err := c.challenges.AcceptInvitation(ctx, *id, *challengeID)
		if errors.Is(err, api.ErrInvitationHandled) {
			fmt.Println("That invitation was already handled.")
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Printf("Joined challenge %d: %s\n", accepted.ID, accepted.Name)
		return nil
	case "reject":
		err := c.challenges.RejectInvitation(ctx, *id)
		if errors.Is(err, api.ErrInvitationHandled) {
			fmt.Println("That invitation was already handled.")
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Println("Invitation rejected.")
		return nil
	default:
		return fmt.Errorf("challenge: unknown subcommand %q", args[0])
	}
}

func (c *cli) showChallenge(ctx context.Context, id int) error {
	ch, err := c.challenges.Get(ctx, id)
	if err != nil {
		return err
	}
	view, err := c.progress.LoadChallenge(ctx, ch)
	if err != nil {
		return err
	}

	fmt.Printf("%s (challenge %d)\n", ch.Name, ch.ID)
	if ch.Description != nil {
		fmt.Println(*ch.Description)
	}
	if ch.TimeBound {
		fmt.Printf("Time-bound: %s -> %s\n", strOr(ch.StartDate, "-"), strOr(ch.EndDate, "-"))
	}
	if !view.CanEdit {
		fmt.Println("View only: you are not a participant of this challenge.")
	}

	fmt.Println("Participants:")
	for _, p := range ch.Participants {
		state := "pending"
		if p.Accepted {
			state = "accepted"
		}
		fmt.Printf("  %d  %s (%s)\n", p.ID, p.Username, state)
	}

	fmt.Println("Daily tasks:")
	for _, task := range ch.DailyTasks {
		fmt.Printf("  [%3d%%] %d  %s\n", c.progress.TaskPercent(task), task.ID, task.Name)
		for _, st := range task.Subtasks {
			mark := " "
			if c.progress.SubtaskDone(st.ID) {
				mark = "x"
			}
			req := "optional"
			if st.Required {
				req = "required"
			}
			fmt.Printf("    [%s] %d  %s (%s, weight %g)\n", mark, st.ID, st.Name, req, st.Weight)
		}
	}
	return nil
}

func (c *cli) runToggle(ctx context.Context, args []string) error {
	if len(args) == 0 || (args[0] != "task" && args[0] != "subtask") {
		return fmt.Errorf("toggle: expected 'task' or 'subtask'")
	}
	fs := flag.NewFlagSet("toggle "+args[0], flag.ExitOnError)
	challengeID := fs.Int("challenge", 0, "challenge id")
	itemID := fs.Int("id", 0, "task or subtask id")
	fs.Parse(args[1:])

	ch, err := c.challenges.Get(ctx, *challengeID)
	if err != nil {
		return err
	}
	if _, err := c.progress.LoadChallenge(ctx, ch); err != nil {
		return err
	}

	var result *services.ToggleResult
	if args[0] == "task" {
		result, err = c.progress.ToggleTask(ctx, ch, *itemID)
	} else {
		result, err = c.progress.ToggleSubtask(ctx, ch, *itemID)
	}
	if err != nil {
		return err
	}

	switch result.Outcome {
	case services.ToggleApplied:
		fmt.Printf("Saved: done=%t\n", result.Value)
	case services.ToggleRolledBackAdminReadOnly:
		fmt.Println(result.Message)
	case services.ToggleRolledBackError:
		fmt.Printf("Not saved (%s); local value restored to %t\n", result.Message, result.Value)
	case services.ToggleSuperseded:
		fmt.Println("Superseded by a newer toggle.")
	}
	return nil
}

func (c *cli) runChart(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("chart", flag.ExitOnError)
	challengeID := fs.Int("challenge", 0, "challenge id")
	taskID := fs.Int("task", 0, "task id")
	fs.Parse(args)

	ch, err := c.challenges.Get(ctx, *challengeID)
	if err != nil {
		return err
	}
	if _, err := c.progress.LoadChallenge(ctx, ch); err != nil {
		return err
	}

	series := c.progress.Series(*taskID)
	if len(series) == 0 {
		fmt.Println("No chart data.")
		return nil
	}

	var names []string
	for name := range series[0].Values {
		names = append(names, name)
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintf(w, "date\t%s\n", strings.Join(names, "\t"))
	for _, point := range series {
		row := make([]string, 0, len(names))
		for _, name := range names {
			row = append(row, fmt.Sprintf("%d%%", point.Values[name]))
		}
		fmt.Fprintf(w, "%s\t%s\n", point.Date, strings.Join(row, "\t"))
	}
	return w.Flush()
}

func serveMetrics(addr string, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", basicAuth(promhttp.Handler()))

	logger.Info("serving metrics", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Warn("metrics listener stopped", zap.Error(err))
	}
}

func basicAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != os.Getenv("METRICS_USER") || pass != os.Getenv("METRICS_PASS") {
			w.Header().Set("WWW-Authenticate", `Basic realm="Metrics"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func newLogger() *zap.Logger {
	if os.Getenv("BETYA_DEBUG") != "" {
		logger, _ := zap.NewDevelopment()
		return logger
	}
	config := zap.NewProductionConfig()
	config.OutputPaths = []string{"stderr"}
	logger, _ := config.Build()
	return logger
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func strOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}
