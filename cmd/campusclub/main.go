package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli"

	"campusclub/client"
	"campusclub/client/api"
	"campusclub/client/controller"
	"campusclub/client/screens"
)

func main() {
	app := cli.NewApp()
	app.Name = "campusclub"
	app.Usage = "university club management client"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config, c",
			Usage: "load configuration from `FILE`",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "login",
			Usage: "sign in and persist the session",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "email"},
				cli.StringFlag{Name: "password"},
			},
			Action: withApp(login),
		},
		{
			Name:  "register",
			Usage: "create a new account",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "email"},
				cli.StringFlag{Name: "password"},
				cli.StringFlag{Name: "name"},
			},
			Action: withApp(register),
		},
		{
			Name:   "logout",
			Usage:  "clear the stored session",
			Action: withApp(logout),
		},
		{
			Name:   "clubs",
			Usage:  "list your memberships and joinable clubs",
			Action: withApp(listClubs),
		},
		{
			Name:      "join",
			Usage:     "request to join a club",
			ArgsUsage: "<club-id>",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "student-no"},
				cli.StringFlag{Name: "phone"},
			},
			Action: withApp(joinClub),
		},
		{
			Name:      "leave",
			Usage:     "leave a club",
			ArgsUsage: "<membership-id>",
			Action:    withApp(leaveClub),
		},
		{
			Name:  "create-club",
			Usage: "submit a new club for approval",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "name"},
				cli.StringFlag{Name: "description"},
				cli.BoolFlag{Name: "suggest", Usage: "generate the description"},
			},
			Action: withApp(createClub),
		},
		{
			Name:   "upcoming",
			Usage:  "browse upcoming events across all clubs",
			Action: withApp(listUpcoming),
		},
		{
			Name:   "panel",
			Usage:  "show the president dashboard",
			Action: withApp(showPanel),
		},
		{
			Name:  "club-settings",
			Usage: "edit the managed club's name and description (president)",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "name"},
				cli.StringFlag{Name: "description"},
				cli.BoolFlag{Name: "suggest", Usage: "generate the description"},
			},
			Action: withApp(clubSettings),
		},
		{
			Name:  "events",
			Usage: "manage the club's events (president)",
			Subcommands: []cli.Command{
				{Name: "list", Action: withApp(listEvents)},
				{
					Name: "create",
					Flags: []cli.Flag{
						cli.StringFlag{Name: "title"},
						cli.StringFlag{Name: "description"},
						cli.StringFlag{Name: "date", Usage: "YYYY-MM-DD"},
						cli.StringFlag{Name: "time", Usage: "HH:MM"},
						cli.StringFlag{Name: "location"},
						cli.BoolFlag{Name: "suggest", Usage: "pre-fill the draft"},
					},
					Action: withApp(createEvent),
				},
				{Name: "delete", ArgsUsage: "<event-id>", Action: withApp(deleteEvent)},
			},
		},
		{
			Name:  "tasks",
			Usage: "manage the club's tasks (president)",
			Subcommands: []cli.Command{
				{Name: "list", Action: withApp(listTasks)},
				{
					Name: "create",
					Flags: []cli.Flag{
						cli.Int64Flag{Name: "member", Usage: "membership id of the assignee"},
						cli.StringFlag{Name: "title"},
						cli.StringFlag{Name: "description"},
						cli.StringFlag{Name: "due", Usage: "YYYY-MM-DD"},
					},
					Action: withApp(createTask),
				},
				{Name: "delete", ArgsUsage: "<task-id>", Action: withApp(deleteTask)},
			},
		},
		{
			Name:  "dues",
			Usage: "manage the club's dues (president)",
			Subcommands: []cli.Command{
				{
					Name:   "list",
					Flags:  []cli.Flag{cli.StringFlag{Name: "filter", Usage: "paid or unpaid"}},
					Action: withApp(listDues),
				},
				{
					Name:  "assign",
					Usage: "charge every member",
					Flags: []cli.Flag{
						cli.StringFlag{Name: "amount"},
						cli.StringFlag{Name: "period", Usage: "e.g. 2026-Fall"},
					},
					Action: withApp(assignDues),
				},
				{Name: "paid", ArgsUsage: "<due-id>", Action: withApp(markDuePaid)},
			},
		},
		{
			Name:  "members",
			Usage: "manage the club's members (president)",
			Subcommands: []cli.Command{
				{Name: "list", Action: withApp(listMembers)},
				{Name: "remove", ArgsUsage: "<membership-id>", Action: withApp(removeMember)},
			},
		},
		{
			Name:  "my-tasks",
			Usage: "show your tasks",
			Subcommands: []cli.Command{
				{Name: "list", Action: withApp(listMyTasks)},
				{
					Name:      "status",
					Usage:     "advance or set a task status",
					ArgsUsage: "<task-id> [BEKLEMEDE|DEVAM_EDIYOR|TAMAMLANDI]",
					Action:    withApp(setTaskStatus),
				},
			},
		},
		{
			Name:   "my-dues",
			Usage:  "show your dues",
			Action: withApp(listMyDues),
		},
		{
			Name:  "profile",
			Usage: "show or edit your profile",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "name", Usage: "new display name"},
				cli.StringFlag{Name: "old-password"},
				cli.StringFlag{Name: "new-password"},
			},
			Action: withApp(profile),
		},
		{
			Name:      "ask",
			Usage:     "ask the club assistant",
			ArgsUsage: "<question>",
			Action:    withApp(ask),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// withApp loads the configuration, wires the SDK and hands the command a
// ready app. The confirmer reads y/N from the terminal.
func withApp(fn func(ctx context.Context, c *cli.Context, app *client.App) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		cfg, err := client.LoadConfig(c.GlobalString("config"))
		if err != nil {
			return err
		}
		client.SetupLogger(cfg.Log)
		slog.Debug("loaded config", slog.String("config", cfg.String()))

		app, err := client.New(cfg, terminalConfirmer{})
		if err != nil {
			return err
		}
		defer func() {
			_ = app.Close()
		}()

		return fn(context.Background(), c, app)
	}
}

type terminalConfirmer struct{}

func (terminalConfirmer) Confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func argID(c *cli.Context, name string) (int64, error) {
	raw := c.Args().First()
	if raw == "" {
		return 0, fmt.Errorf("missing %s argument", name)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return id, nil
}

func login(ctx context.Context, c *cli.Context, app *client.App) error {
	auth := screens.NewAuth(app.Screens)
	form := auth.LoginForm()
	form.Open()
	form.Set("email", c.String("email"))
	form.Set("password", c.String("password"))
	if err := auth.Login(ctx); err != nil {
		return err
	}
	sess := app.Session.Current(ctx)
	fmt.Printf("Signed in as %s <%s>\n", sess.DisplayName, sess.Email)
	if sess.PresidentClubID != nil {
		fmt.Printf("You are the president of %s\n", sess.PresidentClubName)
	}
	return nil
}

func register(ctx context.Context, c *cli.Context, app *client.App) error {
	auth := screens.NewAuth(app.Screens)
	form := auth.RegisterForm()
	form.Open()
	form.Set("fullName", c.String("name"))
	form.Set("email", c.String("email"))
	form.Set("password", c.String("password"))
	if err := auth.Register(ctx); err != nil {
		return err
	}
	fmt.Println("Account created, you can sign in now")
	return nil
}

func logout(ctx context.Context, _ *cli.Context, app *client.App) error {
	if err := screens.NewAuth(app.Screens).Logout(ctx); err != nil {
		return err
	}
	fmt.Println("Signed out")
	return nil
}

func listClubs(ctx context.Context, _ *cli.Context, app *client.App) error {
	screen := screens.NewClubs(app.Screens)
	if err := screen.Open(ctx); err != nil {
		return err
	}

	fmt.Println("Your clubs:")
	for _, membership := range screen.Mine().Items() {
		name := "?"
		if membership.Club != nil {
			name = membership.Club.Name
		}
		fmt.Printf("  %4d  %-30s %s\n", membership.ID, name, membership.Position)
	}

	fmt.Println("Joinable clubs:")
	for _, club := range screen.Available().Items() {
		fmt.Printf("  %4d  %-30s %d members\n", club.ID, club.Name, club.MemberCount())
	}

	if capability := screen.Capability(); capability.IsPresident {
		fmt.Printf("President of %s, see `campusclub panel`\n", capability.ClubName)
	}
	return nil
}

func joinClub(ctx context.Context, c *cli.Context, app *client.App) error {
	clubID, err := argID(c, "club id")
	if err != nil {
		return err
	}
	screen := screens.NewClubs(app.Screens)
	if err = screen.Open(ctx); err != nil {
		return err
	}
	form := screen.JoinForm()
	form.Open()
	form.Set("studentNo", c.String("student-no"))
	form.Set("phone", c.String("phone"))
	if err = screen.Join(ctx, clubID); err != nil {
		return err
	}
	fmt.Println("Join request submitted")
	return nil
}

func leaveClub(ctx context.Context, c *cli.Context, app *client.App) error {
	membershipID, err := argID(c, "membership id")
	if err != nil {
		return err
	}
	screen := screens.NewClubs(app.Screens)
	if err = screen.Open(ctx); err != nil {
		return err
	}
	if err = screen.Leave(ctx, membershipID); err != nil {
		return err
	}
	fmt.Println("Left the club")
	return nil
}

func createClub(ctx context.Context, c *cli.Context, app *client.App) error {
	screen := screens.NewClubs(app.Screens)
	if err := screen.Open(ctx); err != nil {
		return err
	}
	form := screen.CreateForm()
	form.Open()
	form.Set("name", c.String("name"))
	form.Set("description", c.String("description"))
	if c.Bool("suggest") {
		if err := screen.SuggestDescription(ctx); err != nil {
			return err
		}
		fmt.Printf("Suggested description: %s\n", form.Get("description"))
	}
	if err := screen.Create(ctx); err != nil {
		return err
	}
	fmt.Println("Club submitted for approval")
	return nil
}

func listUpcoming(ctx context.Context, _ *cli.Context, app *client.App) error {
	screen := screens.NewUpcoming(app.Screens)
	if err := screen.Open(ctx); err != nil {
		return err
	}
	for _, event := range screen.List().Items() {
		fmt.Printf("%4d  %-10s %-5s %-12s %-20s %s\n", event.ID, event.Date, event.Time, event.Status, event.Location, event.Title)
	}
	return nil
}

func clubSettings(ctx context.Context, c *cli.Context, app *client.App) error {
	screen := screens.NewClubSettings(app.Screens)
	if err := screen.Open(ctx); err != nil {
		return err
	}
	form := screen.Form()
	if c.String("name") != "" {
		form.Set("name", c.String("name"))
	}
	if c.String("description") != "" {
		form.Set("description", c.String("description"))
	}
	if c.Bool("suggest") {
		if err := screen.SuggestDescription(ctx); err != nil {
			return err
		}
		fmt.Printf("Suggested description: %s\n", form.Get("description"))
	}
	if c.String("name") == "" && c.String("description") == "" && !c.Bool("suggest") {
		club := screen.Club()
		fmt.Printf("%s\n%s\n", club.Name, club.Description)
		return nil
	}
	if err := screen.Save(ctx); err != nil {
		return err
	}
	fmt.Println("Club updated")
	return nil
}

func showPanel(ctx context.Context, _ *cli.Context, app *client.App) error {
	panel := screens.NewPanel(app.Screens)
	if err := panel.Open(ctx); err != nil {
		return err
	}
	club := panel.Club()
	stats := panel.Stats()
	fmt.Printf("%s\n%s\n\n", club.Name, club.Description)
	fmt.Printf("Members: %d\nEvents: %d\nDues paid: %.2f\nDues outstanding: %.2f\nPending tasks: %d\n",
		stats.TotalMembers,
		stats.TotalEvents,
		stats.PaidDues,
		stats.OutstandingDues,
		stats.PendingTasks,
	)
	return nil
}

func listEvents(ctx context.Context, _ *cli.Context, app *client.App) error {
	screen := screens.NewEvents(app.Screens)
	if err := screen.Open(ctx); err != nil {
		return err
	}
	for _, event := range screen.List().Items() {
		fmt.Printf("%4d  %-10s %-5s %-12s %s\n", event.ID, event.Date, event.Time, event.Status, event.Title)
	}
	return nil
}

func createEvent(ctx context.Context, c *cli.Context, app *client.App) error {
	screen := screens.NewEvents(app.Screens)
	if err := screen.Open(ctx); err != nil {
		return err
	}
	form := screen.Form()
	form.Open()
	if c.Bool("suggest") {
		_, clubName, _ := app.Session.PresidentClub(ctx)
		if err := screen.Suggest(ctx, clubName); err != nil {
			return err
		}
		fmt.Printf("Suggested: %s\n", form.Get("title"))
	}
	setIfFlagged(form, c, "title", "description", "date", "time", "location")
	if err := screen.Create(ctx); err != nil {
		return err
	}
	fmt.Println("Event created")
	return nil
}

func deleteEvent(ctx context.Context, c *cli.Context, app *client.App) error {
	eventID, err := argID(c, "event id")
	if err != nil {
		return err
	}
	screen := screens.NewEvents(app.Screens)
	if err = screen.Open(ctx); err != nil {
		return err
	}
	if err = screen.Delete(ctx, eventID); err != nil {
		return err
	}
	fmt.Println("Event deleted")
	return nil
}

func listTasks(ctx context.Context, _ *cli.Context, app *client.App) error {
	screen := screens.NewTasks(app.Screens)
	if err := screen.Open(ctx); err != nil {
		return err
	}
	for _, task := range screen.List().Items() {
		fmt.Printf("%4d  %-12s %-20s %-10s %s\n", task.ID, task.Status, task.AssigneeName, task.DueDate, task.Title)
	}
	return nil
}

func createTask(ctx context.Context, c *cli.Context, app *client.App) error {
	screen := screens.NewTasks(app.Screens)
	if err := screen.Open(ctx); err != nil {
		return err
	}
	form := screen.Form()
	form.Open()
	memberID := c.Int64("member")
	if memberID != 0 {
		form.Set("member", strconv.FormatInt(memberID, 10))
	}
	form.Set("title", c.String("title"))
	form.Set("description", c.String("description"))
	form.Set("dueDate", c.String("due"))
	if err := screen.Create(ctx, memberID); err != nil {
		return err
	}
	fmt.Println("Task created")
	return nil
}

func deleteTask(ctx context.Context, c *cli.Context, app *client.App) error {
	taskID, err := argID(c, "task id")
	if err != nil {
		return err
	}
	screen := screens.NewTasks(app.Screens)
	if err = screen.Open(ctx); err != nil {
		return err
	}
	if err = screen.Delete(ctx, taskID); err != nil {
		return err
	}
	fmt.Println("Task deleted")
	return nil
}

func listDues(ctx context.Context, c *cli.Context, app *client.App) error {
	screen := screens.NewDues(app.Screens)
	if err := screen.Open(ctx); err != nil {
		return err
	}

	dues := screen.List().Items()
	switch c.String("filter") {
	case "paid":
		dues = screen.Filter(true)
	case "unpaid":
		dues = screen.Filter(false)
	}
	for _, due := range dues {
		paid := "unpaid"
		if due.Paid {
			paid = "paid " + due.PaidDate
		}
		fmt.Printf("%4d  %-20s %-10s %8.2f  %s\n", due.ID, due.MemberName, due.Period, due.Amount, paid)
	}

	summary := screen.Summary()
	fmt.Printf("\nTotal: %.2f  Paid: %.2f  Outstanding: %.2f\n", summary.Total, summary.Paid, summary.Outstanding)
	return nil
}

func assignDues(ctx context.Context, c *cli.Context, app *client.App) error {
	screen := screens.NewDues(app.Screens)
	if err := screen.Open(ctx); err != nil {
		return err
	}
	form := screen.Form()
	form.Open()
	form.Set("amount", c.String("amount"))
	form.Set("period", c.String("period"))
	if err := screen.AssignToAll(ctx); err != nil {
		return err
	}
	fmt.Println("Due assigned to every member")
	return nil
}

func markDuePaid(ctx context.Context, c *cli.Context, app *client.App) error {
	dueID, err := argID(c, "due id")
	if err != nil {
		return err
	}
	screen := screens.NewDues(app.Screens)
	if err = screen.Open(ctx); err != nil {
		return err
	}
	if err = screen.MarkPaid(ctx, dueID); err != nil {
		return err
	}
	fmt.Println("Due marked paid")
	return nil
}

func listMembers(ctx context.Context, _ *cli.Context, app *client.App) error {
	screen := screens.NewMembers(app.Screens)
	if err := screen.Open(ctx); err != nil {
		return err
	}
	for _, member := range screen.List().Items() {
		name, email := "?", "?"
		if member.User != nil {
			name, email = member.User.FullName, member.User.Email
		}
		fmt.Printf("%4d  %-20s %-25s %s\n", member.ID, name, email, member.Position)
	}
	return nil
}

func removeMember(ctx context.Context, c *cli.Context, app *client.App) error {
	membershipID, err := argID(c, "membership id")
	if err != nil {
		return err
	}
	screen := screens.NewMembers(app.Screens)
	if err = screen.Open(ctx); err != nil {
		return err
	}
	if err = screen.Remove(ctx, membershipID); err != nil {
		return err
	}
	fmt.Println("Member removed")
	return nil
}

func listMyTasks(ctx context.Context, _ *cli.Context, app *client.App) error {
	screen := screens.NewMyTasks(app.Screens)
	if err := screen.Open(ctx); err != nil {
		return err
	}
	for _, task := range screen.List().Items() {
		fmt.Printf("%4d  %-12s %-10s %s\n", task.ID, task.Status, task.DueDate, task.Title)
	}
	return nil
}

func setTaskStatus(ctx context.Context, c *cli.Context, app *client.App) error {
	taskID, err := argID(c, "task id")
	if err != nil {
		return err
	}
	screen := screens.NewMyTasks(app.Screens)
	if err = screen.Open(ctx); err != nil {
		return err
	}

	var status api.TaskStatus
	if raw := c.Args().Get(1); raw != "" {
		status = api.NormalizeTaskStatus(raw)
	} else {
		for _, task := range screen.List().Items() {
			if task.ID == taskID {
				status = screens.NextStatus(task.Status)
			}
		}
		if status == "" {
			return fmt.Errorf("unknown task %d", taskID)
		}
	}

	err = screen.SetStatus(ctx, taskID, status)
	fmt.Printf("Task %d set to %s\n", taskID, status)
	if err != nil {
		fmt.Printf("Warning: the change did not reach the server: %s\n", screen.List().Err())
	}
	return nil
}

func listMyDues(ctx context.Context, _ *cli.Context, app *client.App) error {
	screen := screens.NewMyDues(app.Screens)
	if err := screen.Open(ctx); err != nil {
		return err
	}
	for _, due := range screen.List().Items() {
		paid := "unpaid"
		if due.Paid {
			paid = "paid " + due.PaidDate
		}
		fmt.Printf("%4d  %-20s %-10s %8.2f  %s\n", due.ID, due.MemberName, due.Period, due.Amount, paid)
	}
	summary := screen.Summary()
	fmt.Printf("\nTotal: %.2f  Paid: %.2f  Outstanding: %.2f\n", summary.Total, summary.Paid, summary.Outstanding)
	return nil
}

func profile(ctx context.Context, c *cli.Context, app *client.App) error {
	screen := screens.NewProfile(app.Screens)
	if err := screen.Open(ctx); err != nil {
		return err
	}

	if c.String("name") != "" || c.String("new-password") != "" {
		form := screen.Form()
		form.Open()
		form.Set("fullName", c.String("name"))
		form.Set("oldPassword", c.String("old-password"))
		form.Set("newPassword", c.String("new-password"))
		if err := screen.Save(ctx); err != nil {
			return err
		}
		fmt.Println("Profile updated")
	}

	current := screen.Current()
	fmt.Printf("%s <%s>\nMemberships: %d\nTasks: %d\nEvents: %d\n",
		current.FullName,
		current.Email,
		current.MembershipCount,
		current.TaskCount,
		current.EventCount,
	)
	return nil
}

func ask(ctx context.Context, c *cli.Context, app *client.App) error {
	question := strings.Join(c.Args(), " ")
	if question == "" {
		return fmt.Errorf("missing question")
	}
	reply, err := app.API.Assistant(ctx, question)
	if err != nil {
		return err
	}
	fmt.Println(reply)
	return nil
}

func setIfFlagged(form *controller.Form, c *cli.Context, names ...string) {
	for _, name := range names {
		if value := c.String(name); value != "" {
			form.Set(name, value)
		}
	}
}
