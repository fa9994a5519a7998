// Package console is the operator's terminal front end. It drives the
// same auth, onboarding, company and job flows the web screens use.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"directory-console/internal/common/auth"
	"directory-console/internal/common/errors"
	"directory-console/internal/common/logger"
	"directory-console/internal/common/validation"
	"directory-console/internal/companies"
	"directory-console/internal/jobs"
	"directory-console/internal/machinery"
	"directory-console/internal/models"
	"directory-console/internal/wizard"
)

type Dependencies struct {
	Logger    logger.Logger
	Auth      *auth.Store
	Wizard    *wizard.Controller
	Companies *companies.Browser
	Jobs      *jobs.Poster
	In        io.Reader
	Out       io.Writer
	// DraftDir is searched for draft and job files given by a relative
	// path that does not exist in the working directory.
	DraftDir string
}

// command is one console verb. Public commands run without a signed-in
// admin.
type command struct {
	usage   string
	summary string
	public  bool
	run     func(ctx context.Context, args []string) error
}

// Console reads one command per line. It is not safe for concurrent use.
type Console struct {
	deps     Dependencies
	logger   logger.Logger
	in       *bufio.Scanner
	out      io.Writer
	commands map[string]command

	editor   *companies.Editor
	lastPage *models.CompanyPage
}

func New(deps Dependencies) *Console {
	if deps.Logger == nil {
		deps.Logger = logger.NewNoOpLogger()
	}
	c := &Console{
		deps:   deps,
		logger: deps.Logger.WithFields(map[string]interface{}{"component": "console"}),
		in:     bufio.NewScanner(deps.In),
		out:    deps.Out,
	}
	c.commands = c.commandTable()
	return c
}

func (c *Console) commandTable() map[string]command {
	return map[string]command{
		"help":   {usage: "help", summary: "List commands", public: true, run: c.help},
		"login":  {usage: "login <email> [password]", summary: "Sign in", public: true, run: c.login},
		"logout": {usage: "logout", summary: "Sign out", run: c.logout},
		"whoami": {usage: "whoami", summary: "Show the signed-in admin", public: true, run: c.whoami},

		"status":   {usage: "status", summary: "Show the onboarding draft", run: c.status},
		"set":      {usage: "set <name|contact|gst|about|sqft|unit|work> <value>", summary: "Set a company field", run: c.set},
		"location": {usage: "location <lat> <lng> [city=..] [state=..] [pincode=..] [address=..]", summary: "Set the unit location", run: c.location},
		"cert":     {usage: "cert <certification>", summary: "Toggle a certification", run: c.cert},
		"logo":     {usage: "logo <path>", summary: "Attach the company logo", run: c.logo},
		"image":    {usage: "image add <path>... | image remove <n>", summary: "Manage unit images", run: c.image},
		"next":     {usage: "next", summary: "Go to the next step", run: c.next},
		"back":     {usage: "back", summary: "Go to the previous step", run: c.back},
		"form":     {usage: "form", summary: "Show the machine form for the unit type", run: c.form},
		"machine":  {usage: "machine set <field> <value> | add | cancel | remove <n> | list", summary: "Manage machinery", run: c.machine},
		"service":  {usage: "service add <title> [description] | remove <n> | edit <n> | list", summary: "Manage services", run: c.service},
		"submit":   {usage: "submit", summary: "Onboard the company", run: c.submit},
		"abandon":  {usage: "abandon", summary: "Discard the draft", run: c.abandon},
		"load":     {usage: "load <draft.yaml>", summary: "Fill the draft from a file", run: c.load},

		"companies": {usage: "companies [page=n] [limit=n] [name=..] [unit=..] [work=..] [location=..]", summary: "List companies", run: c.listCompanies},
		"show":      {usage: "show <id|#n>", summary: "Show a company", run: c.showCompany},
		"delete":    {usage: "delete <id|#n>", summary: "Delete a company", run: c.deleteCompany},
		"edit":      {usage: "edit <id|#n> | edit <set|unit|cert|location|logo|image|machine|service|save|close> ...", summary: "Edit a company", run: c.editCompany},

		"job": {usage: "job set <unit|quantity|short|detailed|location> <value> | cert <name> | image <path> | load <file> | show | post", summary: "Post a job", run: c.job},
	}
}

// Run reads commands until EOF, "quit" or ctx is done.
func (c *Console) Run(ctx context.Context) error {
	c.printf("Directory console. Type \"help\" for commands.\n")
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		c.printf("%s> ", c.prompt())
		if !c.in.Scan() {
			c.printf("\n")
			return c.in.Err()
		}
		line := strings.TrimSpace(c.in.Text())
		if line == "quit" || line == "exit" {
			return nil
		}
		_ = c.Exec(ctx, line)
	}
}

func (c *Console) prompt() string {
	if !c.deps.Auth.Snapshot().Authenticated() {
		return "console"
	}
	if c.editor != nil {
		return "edit:" + c.editor.Name
	}
	step := c.deps.Wizard.Step()
	return fmt.Sprintf("onboard %d/3 %s", step.Number(), step)
}

// Exec runs one command line and prints its outcome.
func (c *Console) Exec(ctx context.Context, line string) error {
	args, err := splitArgs(line)
	if err != nil {
		c.printErr(err)
		return err
	}
	if len(args) == 0 {
		return nil
	}

	cmd, ok := c.commands[args[0]]
	if !ok {
		err := fmt.Errorf("unknown command %q", args[0])
		c.printErr(err)
		return err
	}
	if !cmd.public {
		if _, err := c.deps.Auth.RequireUser(); err != nil {
			c.printf("Not signed in. Use: login <email>\n")
			return err
		}
	}

	if err := cmd.run(ctx, args[1:]); err != nil {
		c.logger.Debug("Command failed", map[string]interface{}{
			"command": args[0],
			"error":   err.Error(),
		})
		c.printErr(err)
		return err
	}
	return nil
}

func (c *Console) help(_ context.Context, _ []string) error {
	names := make([]string, 0, len(c.commands))
	for name := range c.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		cmd := c.commands[name]
		c.printf("  %-10s %s\n      %s\n", name, cmd.summary, cmd.usage)
	}
	c.printf("  %-10s %s\n", "quit", "Leave the console")
	return nil
}

func (c *Console) printf(format string, a ...interface{}) {
	fmt.Fprintf(c.out, format, a...)
}

// printErr shows field errors one per line, anything else as one line.
// Failures that already produced a notice are shown again in short form.
func (c *Console) printErr(err error) {
	if se, ok := errors.As(err); ok {
		if se.HasFieldErrors() {
			keys := make([]string, 0, len(se.Fields))
			for k := range se.Fields {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				c.printf("  %s: %s\n", k, strings.Join(se.Fields[k], ", "))
			}
			return
		}
		c.printf("! %s\n", se.Message)
		return
	}
	c.printf("! %s\n", err.Error())
}

func (c *Console) printFieldErrors(errs validation.FieldErrors) error {
	if errs.OK() {
		return nil
	}
	return errs.Err()
}

func usageError(usage string) error {
	return fmt.Errorf("usage: %s", usage)
}

// index parses a 1-based list position.
func index(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%q is not a list position", raw)
	}
	return n - 1, nil
}

// splitArgs splits on spaces and honors double quotes.
func splitArgs(line string) ([]string, error) {
	var (
		args    []string
		current strings.Builder
		quoted  bool
		started bool
	)
	for _, r := range line {
		switch {
		case r == '"':
			quoted = !quoted
			started = true
		case (r == ' ' || r == '\t') && !quoted:
			if started {
				args = append(args, current.String())
				current.Reset()
				started = false
			}
		default:
			current.WriteRune(r)
			started = true
		}
	}
	if quoted {
		return nil, fmt.Errorf("unterminated quote")
	}
	if started {
		args = append(args, current.String())
	}
	return args, nil
}

// keyValues splits "k=v" arguments. Arguments without "=" are rejected.
func keyValues(args []string) (map[string]string, error) {
	out := make(map[string]string, len(args))
	for _, a := range args {
		k, v, ok := strings.Cut(a, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("expected key=value, got %q", a)
		}
		out[k] = v
	}
	return out, nil
}

func parseLocation(args []string) (models.Location, error) {
	if len(args) < 2 {
		return models.Location{}, fmt.Errorf("latitude and longitude are required")
	}
	lat, err := strconv.ParseFloat(args[0], 64)
	if err != nil || lat < -90 || lat > 90 {
		return models.Location{}, fmt.Errorf("%q is not a latitude", args[0])
	}
	lng, err := strconv.ParseFloat(args[1], 64)
	if err != nil || lng < -180 || lng > 180 {
		return models.Location{}, fmt.Errorf("%q is not a longitude", args[1])
	}
	extra, err := keyValues(args[2:])
	if err != nil {
		return models.Location{}, err
	}
	loc := models.Location{Latitude: lat, Longitude: lng}
	for k, v := range extra {
		switch k {
		case "city":
			loc.City = v
		case "state":
			loc.State = v
		case "pincode":
			loc.Pincode = v
		case "address":
			loc.Address = v
		default:
			return models.Location{}, fmt.Errorf("unknown location part %q", k)
		}
	}
	return loc, nil
}

func parseUnitSqFeet(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, validation.FieldErrors{"unitSqFeet": "Unit sq feet must be positive"}.Err()
	}
	return n, nil
}

func (c *Console) printForm(f machinery.Form) {
	if !f.Implemented() {
		c.printf("Machine Setup under development\n")
		return
	}
	c.printf("%s machine fields:\n", f.UnitType().Label())
	for _, field := range f.Fields() {
		marker := ""
		if field.Required {
			marker = " *"
		}
		c.printf("  %-22s %s (%s)%s\n", field.Name, field.Label, field.Kind, marker)
		if len(field.Options) > 0 {
			c.printf("  %-22s   %s\n", "", strings.Join(field.Options, " | "))
		}
	}
	if cur := f.Current(); cur != nil {
		c.printf("Pending: %s\n", wizard.Preview(cur))
	}
}

func (c *Console) printMachines(records []machinery.Record) {
	if len(records) == 0 {
		c.printf("No machines added\n")
		return
	}
	for i, r := range records {
		c.printf("  %d. %s\n", i+1, wizard.Preview(r))
	}
}

func (c *Console) printServices(services []models.Service) {
	if len(services) == 0 {
		c.printf("No services added\n")
		return
	}
	for i, s := range services {
		if s.Description != "" {
			c.printf("  %d. %s: %s\n", i+1, s.Title, s.Description)
			continue
		}
		c.printf("  %d. %s\n", i+1, s.Title)
	}
}
