package console

import (
	"context"
	"strings"

	"directory-console/internal/common/auth"
	"directory-console/internal/common/validation"
	"directory-console/internal/models"
	"directory-console/internal/submission"
	"directory-console/internal/wizard"
)

func (c *Console) login(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return usageError("login <email> [password]")
	}
	email := args[0]
	password := ""
	if len(args) > 1 {
		password = args[1]
	} else {
		c.printf("Password: ")
		if c.in.Scan() {
			password = strings.TrimSpace(c.in.Text())
		}
	}

	if errs := auth.ValidateCredentials(email, password); !errs.OK() {
		return errs.Err()
	}
	if !c.deps.Auth.Login(ctx, strings.TrimSpace(email), password) {
		snap := c.deps.Auth.Snapshot()
		if snap.Error == "" {
			c.printf("! Login already in progress\n")
			return nil
		}
		c.printf("! %s\n", snap.Error)
		return nil
	}
	user, _ := c.deps.Auth.RequireUser()
	c.printf("Signed in as %s (%s)\n", user.Email, user.Role)
	return nil
}

func (c *Console) logout(ctx context.Context, _ []string) error {
	// The local session is gone whatever the backend answered.
	_ = c.deps.Auth.Logout(ctx)
	c.editor = nil
	c.lastPage = nil
	c.deps.Wizard.Abandon()
	c.printf("Signed out\n")
	return nil
}

func (c *Console) whoami(_ context.Context, _ []string) error {
	snap := c.deps.Auth.Snapshot()
	if !snap.Authenticated() {
		c.printf("Not signed in\n")
		return nil
	}
	c.printf("%s (%s)\n", snap.User.Email, snap.User.Role)
	return nil
}

func (c *Console) status(_ context.Context, _ []string) error {
	w := c.deps.Wizard
	d := w.Draft()
	c.printf("Step %d / 3: %s\n", w.Step().Number(), w.Step())
	c.printf("  Name:           %s\n", d.Name)
	c.printf("  Contact:        %s\n", d.ContactNumber)
	c.printf("  GST:            %s\n", d.GSTNumber)
	c.printf("  Unit type:      %s\n", d.UnitType.Label())
	c.printf("  Work type:      %s\n", d.WorkType.Label())
	c.printf("  Unit sq feet:   %d\n", d.UnitSqFeet)
	if d.WorkType == models.WorkExport {
		c.printf("  Certifications: %s\n", strings.Join(d.Certifications, ", "))
	}
	c.printf("  Location:       %s\n", d.Location.Format())
	if d.CompanyLogo != nil {
		c.printf("  Logo:           %s\n", d.CompanyLogo.Filename)
	}
	c.printf("  Unit images:    %d\n", len(d.UnitImages))
	c.printf("Machinery:\n")
	c.printMachines(d.Machinery)
	c.printf("Services:\n")
	c.printServices(d.Services)
	if missing := d.MissingRequired(); len(missing) > 0 {
		c.printf("Missing: %s\n", strings.Join(missing, ", "))
	}
	return nil
}

func (c *Console) set(_ context.Context, args []string) error {
	const usage = "set <name|contact|gst|about|sqft|unit|work> <value>"
	if len(args) < 1 {
		return usageError(usage)
	}
	value := strings.Join(args[1:], " ")
	step := c.deps.Wizard.Company()

	switch args[0] {
	case "name":
		step.SetName(value)
	case "contact":
		step.SetContactNumber(value)
	case "gst":
		step.SetGSTNumber(value)
	case "about":
		step.SetAboutCompany(value)
	case "sqft":
		n, err := parseUnitSqFeet(value)
		if err != nil {
			return err
		}
		step.SetUnitSqFeet(n)
	case "unit":
		return step.SetUnitType(models.UnitType(strings.ToUpper(value)))
	case "work":
		return step.SetWorkType(models.WorkType(strings.ToUpper(value)))
	default:
		return usageError(usage)
	}
	return nil
}

func (c *Console) location(_ context.Context, args []string) error {
	loc, err := parseLocation(args)
	if err != nil {
		return err
	}
	c.deps.Wizard.Company().SetLocation(loc)
	c.printf("Location: %s\n", c.deps.Wizard.Draft().Location.Format())
	return nil
}

func (c *Console) cert(_ context.Context, args []string) error {
	if len(args) == 0 {
		c.printf("Certifications: %s\n", strings.Join(models.Certifications, ", "))
		return nil
	}
	return c.deps.Wizard.Company().ToggleCertification(strings.Join(args, " "))
}

func (c *Console) logo(_ context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("logo <path>")
	}
	a, err := submission.LoadAttachment(args[0])
	if err != nil {
		return err
	}
	c.deps.Wizard.Company().SetLogo(&a)
	return nil
}

func (c *Console) image(_ context.Context, args []string) error {
	const usage = "image add <path>... | image remove <n>"
	if len(args) < 2 {
		return usageError(usage)
	}
	step := c.deps.Wizard.Company()
	switch args[0] {
	case "add":
		images, err := submission.LoadAttachments(args[1:])
		if err != nil {
			return err
		}
		step.AddUnitImages(images...)
	case "remove":
		i, err := index(args[1])
		if err != nil {
			return err
		}
		step.RemoveUnitImage(i)
	default:
		return usageError(usage)
	}
	return nil
}

func (c *Console) next(ctx context.Context, _ []string) error {
	if err := c.deps.Wizard.Next(); err != nil {
		return err
	}
	c.printf("Step %d / 3: %s\n", c.deps.Wizard.Step().Number(), c.deps.Wizard.Step())
	if c.deps.Wizard.Step() == wizard.StepMachinery {
		return c.form(ctx, nil)
	}
	return nil
}

func (c *Console) back(_ context.Context, _ []string) error {
	c.deps.Wizard.Back()
	c.printf("Step %d / 3: %s\n", c.deps.Wizard.Step().Number(), c.deps.Wizard.Step())
	return nil
}

func (c *Console) form(_ context.Context, _ []string) error {
	f, err := c.deps.Wizard.Machinery().Form()
	if err != nil {
		return err
	}
	c.printForm(f)
	return nil
}

func (c *Console) machine(_ context.Context, args []string) error {
	const usage = "machine set <field> <value> | add | cancel | remove <n> | list"
	if len(args) < 1 {
		return usageError(usage)
	}
	step := c.deps.Wizard.Machinery()

	switch args[0] {
	case "set":
		if len(args) < 2 {
			return usageError(usage)
		}
		return step.Set(args[1], strings.Join(args[2:], " "))
	case "add":
		errs, err := step.Add()
		if err != nil {
			return err
		}
		if err := c.printFieldErrors(errs); err != nil {
			return err
		}
		c.printMachines(step.Records())
	case "cancel":
		step.Cancel()
	case "remove":
		if len(args) != 2 {
			return usageError(usage)
		}
		i, err := index(args[1])
		if err != nil {
			return err
		}
		step.Remove(i)
		c.printMachines(step.Records())
	case "list":
		c.printMachines(step.Records())
	default:
		return usageError(usage)
	}
	return nil
}

func (c *Console) service(_ context.Context, args []string) error {
	const usage = "service add <title> [description] | remove <n> | edit <n> | list"
	if len(args) < 1 {
		return usageError(usage)
	}
	step := c.deps.Wizard.Services()

	switch args[0] {
	case "add":
		title, description := "", ""
		if len(args) > 1 {
			title = args[1]
		}
		if len(args) > 2 {
			description = strings.Join(args[2:], " ")
		}
		if errs := step.Add(title, description); !errs.OK() {
			return errs.Err()
		}
	case "remove", "edit":
		if len(args) != 2 {
			return usageError(usage)
		}
		i, err := index(args[1])
		if err != nil {
			return err
		}
		if args[0] == "remove" {
			step.Remove(i)
			break
		}
		svc, ok := step.Edit(i)
		if !ok {
			return validation.FieldErrors{"services": "No such service"}.Err()
		}
		c.printf("Editing %q. Re-add it with: service add \"%s\" \"%s\"\n", svc.Title, svc.Title, svc.Description)
	case "list":
	default:
		return usageError(usage)
	}
	c.printServices(step.Services())
	return nil
}

func (c *Console) submit(ctx context.Context, _ []string) error {
	return c.deps.Wizard.Submit(ctx)
}

func (c *Console) abandon(_ context.Context, _ []string) error {
	c.deps.Wizard.Abandon()
	c.printf("Draft discarded\n")
	return nil
}

func (c *Console) load(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("load <draft.yaml>")
	}
	f, err := LoadDraftFile(findFile(c.deps.DraftDir, args[0]))
	if err != nil {
		return err
	}
	if err := f.Apply(c.deps.Wizard); err != nil {
		return err
	}
	c.printf("Loaded %s\n", args[0])
	return c.status(ctx, nil)
}
