package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/matheus3301/mandap/internal/channel"
	"github.com/matheus3301/mandap/internal/ledger"
	"github.com/matheus3301/mandap/internal/notify"
	"github.com/matheus3301/mandap/internal/status"
	"github.com/matheus3301/mandap/internal/store"
	"github.com/matheus3301/mandap/internal/tenant"
)

// parseArgs parses fs allowing flags after positional arguments, and
// returns the positionals.
func parseArgs(fs *flag.FlagSet, args []string) ([]string, error) {
	var pos []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		args = fs.Args()
		if len(args) == 0 {
			return pos, nil
		}
		pos = append(pos, args[0])
		args = args[1:]
	}
}

// password returns value, or prompts for it on the terminal.
func password(value, prompt string) (string, error) {
	if value != "" {
		return value, nil
	}
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		fmt.Fprint(os.Stderr, prompt)
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(b), nil
	}
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (c *cli) current() (tenant.Context, error) {
	return c.ws.Tenant()
}

func (c *cli) cmdRegister(args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	mandap := fs.String("mandap", "", "mandap name")
	user := fs.String("user", "", "admin username")
	pass := fs.String("password", "", "admin password (prompted when empty)")
	if _, err := parseArgs(fs, args); err != nil {
		return err
	}
	pw, err := password(*pass, "Password: ")
	if err != nil {
		return err
	}
	confirm := pw
	if *pass == "" && term.IsTerminal(int(os.Stdin.Fd())) {
		if confirm, err = password("", "Confirm password: "); err != nil {
			return err
		}
	}
	t, err := c.accounts.Register(ledger.RegisterForm{
		MandapName:      *mandap,
		Username:        *user,
		Password:        pw,
		ConfirmPassword: confirm,
	})
	if err != nil {
		return err
	}
	if err := c.ws.SignIn(t); err != nil {
		return err
	}
	fmt.Printf("Registered %s. Logged in as %s (admin).\n", t.DisplayName(), t.Username())
	return nil
}

func (c *cli) cmdLogin(args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	user := fs.String("user", "", "username")
	pass := fs.String("password", "", "password (prompted when empty)")
	if _, err := parseArgs(fs, args); err != nil {
		return err
	}
	pw, err := password(*pass, "Password: ")
	if err != nil {
		return err
	}
	t, err := c.accounts.Login(strings.TrimSpace(*user), pw)
	if err != nil {
		return err
	}
	if err := c.ws.SignIn(t); err != nil {
		return err
	}
	fmt.Printf("Logged in to %s as %s (%s).\n", t.DisplayName(), t.Username(), t.Role())
	return nil
}

func (c *cli) cmdLogout() error {
	if err := c.ws.SignOut(); err != nil {
		return err
	}
	fmt.Println("Logged out.")
	return nil
}

func (c *cli) cmdWhoami() error {
	t, err := c.current()
	if err != nil {
		return err
	}
	if c.json {
		outputJSON(map[string]string{
			"profile":  c.ws.Profile(),
			"mandap":   t.DisplayName(),
			"mandapId": t.MandapID(),
			"username": t.Username(),
			"role":     string(t.Role()),
		})
		return nil
	}
	fmt.Printf("Profile: %s\n", c.ws.Profile())
	fmt.Printf("Mandap:  %s (%s)\n", t.DisplayName(), t.MandapID())
	fmt.Printf("User:    %s (%s)\n", t.Username(), t.Role())
	return nil
}

func (c *cli) cmdOffer(args []string) error {
	fs := flag.NewFlagSet("offer", flag.ContinueOnError)
	var f ledger.OfferingForm
	fs.StringVar(&f.Name, "name", "", "devotee name")
	fs.StringVar(&f.Gothram, "gothram", "", "gothram")
	fs.StringVar(&f.Phone, "phone", "", "10-digit phone number")
	fs.StringVar(&f.Address, "address", "", "address")
	fs.Int64Var(&f.Rupees, "rupees", 0, "amount in rupees")
	if _, err := parseArgs(fs, args); err != nil {
		return err
	}
	t, err := c.current()
	if err != nil {
		return err
	}
	o, err := c.ledger.RecordOffering(t, f)
	if err != nil {
		return err
	}
	if c.json {
		outputJSON(o)
		return nil
	}
	fmt.Printf("Recorded ₹%d from %s. Receipt %s (id %s)\n", o.Rupees, o.Name, ledger.ReceiptNumber(o.ID), o.ID)
	return nil
}

func (c *cli) cmdOfferings(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("offerings", flag.ContinueOnError)
	search := fs.String("search", "", "devotee name prefix")
	all := fs.Bool("all", false, "list every page")
	if _, err := parseArgs(fs, args); err != nil {
		return err
	}
	t, err := c.current()
	if err != nil {
		return err
	}
	pager := c.ws.Offerings(t)
	pager.Search(strings.TrimSpace(*search))
	for {
		if _, err := pager.LoadMore(ctx); err != nil {
			return err
		}
		if !*all || pager.Done() {
			break
		}
	}

	items := pager.Items()
	if c.json {
		outputJSON(items)
		return nil
	}
	if len(items) == 0 {
		fmt.Println("No offerings found.")
		return nil
	}
	for _, o := range items {
		fmt.Printf("%-10s %-24s %-14s %8d  %s\n", ledger.ReceiptNumber(o.ID), o.Name, o.Phone, o.Rupees, o.ID)
	}
	if !pager.Done() {
		fmt.Println("(more: use --all)")
	}
	if *search == "" {
		total, err := c.ledger.TotalCollections(t)
		if err != nil {
			return err
		}
		fmt.Printf("Total collections: ₹%d\n", total)
	}
	return nil
}

func (c *cli) cmdReceipt(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("receipt", flag.ContinueOnError)
	open := fs.String("open", "", "send the thank-you message: chat or sms")
	pos, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(pos) != 1 {
		return usageErr("mandapctl receipt <offeringID> [--open chat|sms]")
	}
	t, err := c.current()
	if err != nil {
		return err
	}
	r, err := c.ledger.Receipt(t, pos[0])
	if err != nil {
		return err
	}

	if *open != "" {
		kind, err := channel.ParseKind(*open)
		if err != nil {
			return err
		}
		addr := r.Offering.Phone
		if kind == channel.Chat {
			addr = notify.Address(c.ws.Config().CountryCode, addr)
		}
		c.ws.Messenger().Open(ctx, kind, addr, r.Message)
	}

	if c.json {
		outputJSON(r)
		return nil
	}
	fmt.Printf("Receipt: %s\n", r.Number)
	fmt.Printf("Mandap:  %s\n", r.MandapName)
	fmt.Printf("Devotee: %s (%s)\n", r.Offering.Name, r.Offering.Gothram)
	fmt.Printf("Phone:   %s\n", r.Offering.Phone)
	fmt.Printf("Amount:  ₹%d\n", r.Offering.Rupees)
	fmt.Printf("\n%s\n\n", r.Message)
	fmt.Printf("Chat: %s\n", r.ChatLink)
	fmt.Printf("SMS:  %s\n", r.SMSLink)
	return nil
}

func (c *cli) cmdEvents(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("events", flag.ContinueOnError)
	all := fs.Bool("all", false, "list every page")
	if _, err := parseArgs(fs, args); err != nil {
		return err
	}
	t, err := c.current()
	if err != nil {
		return err
	}
	pager := c.ws.Events(t)
	for {
		if _, err := pager.LoadMore(ctx); err != nil {
			return err
		}
		if !*all || pager.Done() {
			break
		}
	}

	items := pager.Items()
	if c.json {
		outputJSON(items)
		return nil
	}
	if len(items) == 0 {
		fmt.Println("No events scheduled.")
		return nil
	}
	for _, e := range items {
		when := "past"
		if c.ledger.Upcoming(e.Date) {
			when = "upcoming"
		}
		fmt.Printf("%s  %-8s %-30s %s\n", e.Date, when, e.Title, e.ID)
	}
	if !pager.Done() {
		fmt.Println("(more: use --all)")
	}
	return nil
}

func (c *cli) cmdEvent(sub string, args []string) error {
	t, err := c.current()
	if err != nil {
		return err
	}
	switch sub {
	case "add":
		fs := flag.NewFlagSet("event add", flag.ContinueOnError)
		var f ledger.EventForm
		fs.StringVar(&f.Title, "title", "", "event title")
		fs.StringVar(&f.Date, "date", "", "date (YYYY-MM-DD)")
		fs.StringVar(&f.Description, "desc", "", "description")
		if _, err := parseArgs(fs, args); err != nil {
			return err
		}
		e, err := c.ledger.AddEvent(t, f)
		if err != nil {
			return err
		}
		if c.json {
			outputJSON(e)
			return nil
		}
		fmt.Printf("Scheduled %s on %s (id %s)\n", e.Title, e.Date, e.ID)
	case "delete":
		if len(args) != 1 {
			return usageErr("mandapctl event delete <id>")
		}
		if err := c.ledger.DeleteEvent(t, args[0]); err != nil {
			return err
		}
		fmt.Println("Event deleted.")
	default:
		return fmt.Errorf("unknown event subcommand: %s", sub)
	}
	return nil
}

func (c *cli) cmdExpense(sub string, args []string) error {
	t, err := c.current()
	if err != nil {
		return err
	}
	switch sub {
	case "add":
		fs := flag.NewFlagSet("expense add", flag.ContinueOnError)
		var f ledger.ExpenseForm
		fs.StringVar(&f.Description, "desc", "", "what the money was spent on")
		fs.Int64Var(&f.Amount, "amount", 0, "amount in rupees")
		fs.StringVar(&f.Category, "category", "", strings.Join(store.ExpenseCategories, ", "))
		fs.StringVar(&f.Date, "date", "", "date (YYYY-MM-DD)")
		if _, err := parseArgs(fs, args); err != nil {
			return err
		}
		e, err := c.ledger.AddExpense(t, f)
		if err != nil {
			return err
		}
		if c.json {
			outputJSON(e)
			return nil
		}
		fmt.Printf("Recorded ₹%d for %s (id %s)\n", e.Amount, e.Description, e.ID)
	case "list":
		list, err := c.ledger.Expenses(t)
		if err != nil {
			return err
		}
		if c.json {
			outputJSON(list)
			return nil
		}
		if len(list) == 0 {
			fmt.Println("No expenses recorded.")
			return nil
		}
		for _, e := range list {
			fmt.Printf("%s  %-12s %8d  %-30s %s\n", e.Date, e.Category, e.Amount, e.Description, e.ID)
		}
	case "delete":
		if len(args) != 1 {
			return usageErr("mandapctl expense delete <id>")
		}
		if err := c.ledger.DeleteExpense(t, args[0]); err != nil {
			return err
		}
		fmt.Println("Expense deleted.")
	default:
		return fmt.Errorf("unknown expense subcommand: %s", sub)
	}
	return nil
}

func (c *cli) cmdSummary() error {
	t, err := c.current()
	if err != nil {
		return err
	}
	s, err := c.ledger.Summary(t)
	if err != nil {
		return err
	}
	if c.json {
		outputJSON(s)
		return nil
	}
	fmt.Printf("Collections: ₹%d\n", s.Collections)
	fmt.Printf("Expenses:    ₹%d\n", s.Expenses)
	fmt.Printf("Balance:     ₹%d\n", s.Balance)
	return nil
}

func (c *cli) cmdStaff(sub string, args []string) error {
	t, err := c.current()
	if err != nil {
		return err
	}
	switch sub {
	case "add":
		fs := flag.NewFlagSet("staff add", flag.ContinueOnError)
		user := fs.String("user", "", "staff username")
		pass := fs.String("password", "", "staff password (prompted when empty)")
		if _, err := parseArgs(fs, args); err != nil {
			return err
		}
		pw, err := password(*pass, "Staff password: ")
		if err != nil {
			return err
		}
		u, err := c.accounts.AddStaff(t, ledger.StaffForm{Username: *user, Password: pw})
		if err != nil {
			return err
		}
		fmt.Printf("Added staff login %s.\n", u.Username)
	case "list":
		users, err := c.accounts.ListStaff(t)
		if err != nil {
			return err
		}
		if c.json {
			type login struct {
				Username string `json:"username"`
				Role     string `json:"role"`
			}
			out := make([]login, len(users))
			for i, u := range users {
				out[i] = login{Username: u.Username, Role: u.Role}
			}
			outputJSON(out)
			return nil
		}
		for _, u := range users {
			fmt.Printf("%-20s %s\n", u.Username, u.Role)
		}
	default:
		return fmt.Errorf("unknown staff subcommand: %s", sub)
	}
	return nil
}

func (c *cli) cmdNotify(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("notify", flag.ContinueOnError)
	group := fs.Bool("group", false, "send one group message instead of one per devotee")
	kindFlag := fs.String("kind", "", "sms or chat (default from config)")
	dryRun := fs.Bool("dry-run", false, "show the recipients and message without sending")
	partial := fs.Bool("partial", false, "send even if the recipient scan failed part way")
	pos, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(pos) != 1 {
		return usageErr("mandapctl notify <eventID> [--group] [--kind sms|chat] [--dry-run]")
	}
	t, err := c.current()
	if err != nil {
		return err
	}
	ev, err := c.ledger.Event(t, pos[0])
	if err != nil {
		return err
	}

	kind := c.ws.Messenger().Kind
	if *kindFlag != "" {
		if kind, err = channel.ParseKind(*kindFlag); err != nil {
			return err
		}
	}

	job, err := c.ws.Dispatcher(t).Prepare(ctx, *ev)
	if err != nil {
		if job == nil || job.State() != status.Ready || !*partial {
			return err
		}
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}

	fmt.Printf("Notifying %d devotee(s) of %s by %s:\n\n%s\n\n", job.Total(), ev.Title, kind, job.Text())
	if *dryRun {
		if c.json {
			outputJSON(job.Recipients())
			return nil
		}
		for _, p := range job.Recipients() {
			fmt.Println(p)
		}
		return nil
	}
	if job.Total() == 0 {
		fmt.Println("No devotees with a phone number to notify.")
	}

	if *group {
		if err := job.DispatchAsGroup(ctx, kind); err != nil {
			return err
		}
		fmt.Println("Group message opened.")
		return nil
	}

	err = job.DispatchIndividually(ctx, kind, func(p notify.Progress) {
		fmt.Fprintf(os.Stderr, "\rSent %d of %d", p.Processed, p.Total)
	})
	fmt.Fprintln(os.Stderr)
	if errors.Is(err, notify.ErrDispatchCancelled) {
		fmt.Printf("Cancelled after %d of %d.\n", job.Processed(), job.Total())
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Printf("Done: %d notified.\n", job.Processed())
	return nil
}

func (c *cli) cmdPair(ctx context.Context) error {
	wa := c.ws.Messenger().WhatsApp
	if wa == nil {
		return errors.New("whatsapp is not available for this profile")
	}
	if wa.IsLoggedIn() {
		fmt.Println("WhatsApp device already paired.")
		return nil
	}
	if err := wa.Pair(ctx, os.Stdout); err != nil {
		return err
	}
	fmt.Println("WhatsApp device paired. Set notify.channel = \"whatsapp\" in config.toml to send through it.")
	return nil
}
