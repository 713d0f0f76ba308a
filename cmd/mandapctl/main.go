package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"go.uber.org/fx"

	"github.com/matheus3301/mandap/internal/app"
	"github.com/matheus3301/mandap/internal/config"
	"github.com/matheus3301/mandap/internal/ledger"
	"github.com/matheus3301/mandap/internal/profile"
)

// cli carries the profile's services into each command.
type cli struct {
	ws       *app.Workspace
	accounts *ledger.Accounts
	ledger   *ledger.Ledger
	json     bool
}

func main() {
	profileFlag := flag.String("profile", "", "profile name (overrides config default)")
	jsonFlag := flag.Bool("json", false, "output in JSON format")
	verbose := flag.Bool("v", false, "also log to stderr")
	flag.Usage = printUsage
	flag.Parse()

	cfg, err := config.LoadOrDefault(profile.ConfigPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	profileName := profile.Resolve(*profileFlag, cfg)
	if err := profile.ValidateName(profileName); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	c := &cli{json: *jsonFlag}
	fxApp := fx.New(
		app.Module(app.Params{
			Profile: profileName,
			Config:  cfg,
			Console: *verbose,
			Pair:    args[0] == "pair",
		}),
		fx.NopLogger,
		fx.Populate(&c.ws, &c.accounts, &c.ledger),
	)
	if err := fxApp.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	startCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	err = fxApp.Start(startCtx)
	cancel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	runErr := c.run(ctx, args)
	stop()

	stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = fxApp.Stop(stopCtx)

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", runErr)
		os.Exit(1)
	}
}

func (c *cli) run(ctx context.Context, args []string) error {
	switch args[0] {
	case "register":
		return c.cmdRegister(args[1:])
	case "login":
		return c.cmdLogin(args[1:])
	case "logout":
		return c.cmdLogout()
	case "whoami":
		return c.cmdWhoami()
	case "offer":
		return c.cmdOffer(args[1:])
	case "offerings":
		return c.cmdOfferings(ctx, args[1:])
	case "receipt":
		return c.cmdReceipt(ctx, args[1:])
	case "events":
		return c.cmdEvents(ctx, args[1:])
	case "event":
		if len(args) < 2 {
			return usageErr("mandapctl event <add|delete>")
		}
		return c.cmdEvent(args[1], args[2:])
	case "expense":
		if len(args) < 2 {
			return usageErr("mandapctl expense <add|list|delete>")
		}
		return c.cmdExpense(args[1], args[2:])
	case "summary":
		return c.cmdSummary()
	case "staff":
		if len(args) < 2 {
			return usageErr("mandapctl staff <add|list>")
		}
		return c.cmdStaff(args[1], args[2:])
	case "notify":
		return c.cmdNotify(ctx, args[1:])
	case "pair":
		return c.cmdPair(ctx)
	default:
		printUsage()
		return fmt.Errorf("unknown command: %s", args[0])
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "usage: mandapctl [--profile <name>] [--json] [-v] <command>")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "commands:")
	fmt.Fprintln(os.Stderr, "  register --mandap <name> --user <name>   Create a mandap and its admin")
	fmt.Fprintln(os.Stderr, "  login --user <name>                      Log in")
	fmt.Fprintln(os.Stderr, "  logout                                   Log out")
	fmt.Fprintln(os.Stderr, "  whoami                                   Show the logged-in user")
	fmt.Fprintln(os.Stderr, "  offer --name ... --phone ... --rupees N  Record an offering")
	fmt.Fprintln(os.Stderr, "  offerings [--search <prefix>] [--all]    List offerings")
	fmt.Fprintln(os.Stderr, "  receipt <id> [--open chat|sms]           Show or send a receipt")
	fmt.Fprintln(os.Stderr, "  events [--all]                           List events")
	fmt.Fprintln(os.Stderr, "  event add --title ... --date YYYY-MM-DD  Schedule an event")
	fmt.Fprintln(os.Stderr, "  event delete <id>                        Delete an event")
	fmt.Fprintln(os.Stderr, "  expense add|list|delete                  Manage expenses")
	fmt.Fprintln(os.Stderr, "  summary                                  Show the balance sheet")
	fmt.Fprintln(os.Stderr, "  staff add --user <name> | staff list     Manage staff logins")
	fmt.Fprintln(os.Stderr, "  notify <eventID> [--group] [--kind k]    Notify every devotee of an event")
	fmt.Fprintln(os.Stderr, "  pair                                     Link a WhatsApp device by QR code")
}

func usageErr(usage string) error {
	return fmt.Errorf("usage: %s", usage)
}

func outputJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "json encode error: %v\n", err)
	}
}
