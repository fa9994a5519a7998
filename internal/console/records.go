package console

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"directory-console/internal/common/validation"
	"directory-console/internal/companies"
	"directory-console/internal/models"
	"directory-console/internal/submission"
)

func (c *Console) listCompanies(ctx context.Context, args []string) error {
	filters, err := keyValues(args)
	if err != nil {
		return err
	}
	q := models.CompanyQuery{}
	for k, v := range filters {
		switch k {
		case "page":
			q.Page, err = strconv.Atoi(v)
		case "limit":
			q.Limit, err = strconv.Atoi(v)
		case "name":
			q.Name = v
		case "unit":
			q.UnitType = models.UnitType(strings.ToUpper(v))
		case "work":
			q.WorkType = models.WorkType(strings.ToUpper(v))
		case "location":
			q.Location = v
		default:
			return fmt.Errorf("unknown filter %q", k)
		}
		if err != nil {
			return fmt.Errorf("%s must be a number", k)
		}
	}

	page, err := c.deps.Companies.List(ctx, q)
	if err != nil {
		return err
	}
	c.lastPage = page
	if len(page.Companies) == 0 {
		c.printf("No companies found\n")
		return nil
	}

	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tID\tNAME\tUNIT TYPE\tWORK TYPE\tLOCATION")
	for i, co := range page.Companies {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", i+1, co.ID, co.Name,
			co.UnitType.Label(), co.WorkType.Label(), companies.FormatLocation(co.Location))
	}
	_ = tw.Flush()
	p := page.Pagination
	c.printf("Page %d of %d (%d companies)\n", p.Page, p.TotalPages, p.Total)
	return nil
}

// companyID resolves "#n" against the last listed page.
func (c *Console) companyID(raw string) (string, error) {
	if !strings.HasPrefix(raw, "#") {
		return raw, nil
	}
	i, err := index(strings.TrimPrefix(raw, "#"))
	if err != nil {
		return "", err
	}
	if c.lastPage == nil || i >= len(c.lastPage.Companies) {
		return "", fmt.Errorf("no company %s on the last listed page", raw)
	}
	return c.lastPage.Companies[i].ID, nil
}

func (c *Console) showCompany(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("show <id|#n>")
	}
	id, err := c.companyID(args[0])
	if err != nil {
		return err
	}
	d, err := c.deps.Companies.Detail(ctx, id)
	if err != nil {
		return err
	}

	co := d.Company
	c.printf("%s (%s)\n", co.Name, co.ID)
	c.printf("  Contact:      %s\n", co.ContactNumber)
	if co.GSTNumber != "" {
		c.printf("  GST:          %s\n", co.GSTNumber)
	}
	c.printf("  Unit type:    %s\n", co.UnitType.Label())
	c.printf("  Work type:    %s\n", co.WorkType.Label())
	c.printf("  Unit sq feet: %d\n", co.UnitSqFeet)
	c.printf("  Location:     %s\n", d.Location)
	if len(co.Certifications) > 0 {
		c.printf("  Certified:    %s\n", strings.Join(co.Certifications, ", "))
	}
	if co.AboutCompany != "" {
		c.printf("  About:        %s\n", co.AboutCompany)
	}
	c.printf("  Images:       %d\n", len(co.UnitImages))
	c.printf("Machinery:\n")
	c.printMachines(d.Machinery)
	c.printf("Services:\n")
	c.printServices(co.Services)
	return nil
}

func (c *Console) deleteCompany(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("delete <id|#n>")
	}
	id, err := c.companyID(args[0])
	if err != nil {
		return err
	}
	co := &models.Company{ID: id, Name: id}
	if c.lastPage != nil {
		for i := range c.lastPage.Companies {
			if c.lastPage.Companies[i].ID == id {
				co = &c.lastPage.Companies[i]
			}
		}
	}
	if err := c.deps.Companies.Delete(ctx, co); err != nil {
		return err
	}
	c.lastPage = nil
	if c.editor != nil && c.editor.ID() == id {
		c.editor = nil
	}
	return nil
}

const editUsage = "edit <id|#n> | edit <set|unit|cert|location|logo|image|machine|service|save|close> ..."

func (c *Console) editCompany(ctx context.Context, args []string) error {
	if len(args) == 0 {
		if c.editor == nil {
			return usageError(editUsage)
		}
		c.printEditor()
		return nil
	}

	switch args[0] {
	case "set", "unit", "cert", "location", "logo", "image", "machine", "service", "save", "close":
	default:
		id, err := c.companyID(args[0])
		if err != nil {
			return err
		}
		e, err := c.deps.Companies.Edit(ctx, id)
		if err != nil {
			return err
		}
		c.editor = e
		c.printEditor()
		return nil
	}

	e := c.editor
	if e == nil {
		return fmt.Errorf("no company open, use: edit <id>")
	}
	rest := args[1:]

	switch args[0] {
	case "set":
		return c.editSet(e, rest)
	case "unit":
		if len(rest) != 1 {
			return usageError("edit unit <UNIT_TYPE>")
		}
		return e.SetUnitType(models.UnitType(strings.ToUpper(rest[0])))
	case "cert":
		name := strings.Join(rest, " ")
		if !models.IsCertification(name) {
			return validation.FieldErrors{"certifications": "Unknown certification"}.Err()
		}
		e.ToggleCertification(name)
	case "location":
		loc, err := parseLocation(rest)
		if err != nil {
			return err
		}
		loc.City = strings.ToLower(strings.TrimSpace(loc.City))
		e.Location = &loc
	case "logo":
		if len(rest) != 1 {
			return usageError("edit logo <path>")
		}
		a, err := submission.LoadAttachment(rest[0])
		if err != nil {
			return err
		}
		e.Logo = &a
	case "image":
		return c.editImage(e, rest)
	case "machine":
		return c.editMachine(e, rest)
	case "service":
		return c.editService(e, rest)
	case "save":
		if err := e.Save(ctx); err != nil {
			return err
		}
		c.editor = nil
	case "close":
		c.editor = nil
	}
	return nil
}

func (c *Console) printEditor() {
	e := c.editor
	c.printf("Editing %s (%s)\n", e.Name, e.ID())
	c.printf("  Contact:      %s\n", e.ContactNumber)
	c.printf("  GST:          %s\n", e.GSTNumber)
	c.printf("  Unit type:    %s\n", e.UnitType().Label())
	c.printf("  Work type:    %s\n", e.WorkType.Label())
	c.printf("  Unit sq feet: %d\n", e.UnitSqFeet)
	c.printf("  Location:     %s\n", companies.FormatLocation(e.Location))
	c.printf("  Certified:    %s\n", strings.Join(e.Certifications, ", "))
	c.printf("  Images:       %d kept, %d new\n", len(e.ExistingImageURLs), len(e.NewImages))
	c.printf("Machinery:\n")
	c.printMachines(e.Machinery())
	c.printf("Services:\n")
	c.printServices(e.Services)
}

func (c *Console) editSet(e *companies.Editor, args []string) error {
	const usage = "edit set <name|contact|gst|about|sqft|work> <value>"
	if len(args) < 1 {
		return usageError(usage)
	}
	value := strings.Join(args[1:], " ")
	switch args[0] {
	case "name":
		e.Name = value
	case "contact":
		e.ContactNumber = value
	case "gst":
		e.GSTNumber = value
	case "about":
		e.AboutCompany = value
	case "sqft":
		n, err := parseUnitSqFeet(value)
		if err != nil {
			return err
		}
		e.UnitSqFeet = n
	case "work":
		w := models.WorkType(strings.ToUpper(value))
		if !w.Valid() {
			return validation.FieldErrors{"workType": "Work type is required"}.Err()
		}
		e.WorkType = w
	default:
		return usageError(usage)
	}
	return nil
}

func (c *Console) editImage(e *companies.Editor, args []string) error {
	const usage = "edit image add <path>... | remove <n> | drop <n>"
	if len(args) < 2 {
		return usageError(usage)
	}
	switch args[0] {
	case "add":
		images, err := submission.LoadAttachments(args[1:])
		if err != nil {
			return err
		}
		e.NewImages = append(e.NewImages, images...)
	case "remove":
		i, err := index(args[1])
		if err != nil {
			return err
		}
		e.RemoveExistingImage(i)
	case "drop":
		i, err := index(args[1])
		if err != nil {
			return err
		}
		if i < len(e.NewImages) {
			e.NewImages = append(e.NewImages[:i:i], e.NewImages[i+1:]...)
		}
	default:
		return usageError(usage)
	}
	return nil
}

func (c *Console) editMachine(e *companies.Editor, args []string) error {
	const usage = "edit machine form | set <field> <value> | add | edit <n> | remove <n> | list"
	if len(args) < 1 {
		return usageError(usage)
	}
	switch args[0] {
	case "form":
		f, err := e.MachineForm()
		if err != nil {
			return err
		}
		c.printForm(f)
	case "set":
		if len(args) < 2 {
			return usageError(usage)
		}
		f, err := e.MachineForm()
		if err != nil {
			return err
		}
		return f.Set(args[1], strings.Join(args[2:], " "))
	case "add":
		errs, err := e.AddMachine()
		if err != nil {
			return err
		}
		if err := c.printFieldErrors(errs); err != nil {
			return err
		}
		c.printMachines(e.Machinery())
	case "edit", "remove":
		if len(args) != 2 {
			return usageError(usage)
		}
		i, err := index(args[1])
		if err != nil {
			return err
		}
		if args[0] == "remove" {
			e.RemoveMachine(i)
			c.printMachines(e.Machinery())
			return nil
		}
		if err := e.EditMachine(i); err != nil {
			return err
		}
		f, _ := e.MachineForm()
		c.printForm(f)
	case "list":
		c.printMachines(e.Machinery())
	default:
		return usageError(usage)
	}
	return nil
}

func (c *Console) editService(e *companies.Editor, args []string) error {
	const usage = "edit service add <title> [description] | remove <n>"
	if len(args) < 2 {
		return usageError(usage)
	}
	switch args[0] {
	case "add":
		if strings.TrimSpace(args[1]) == "" {
			return validation.FieldErrors{"title": "Service title is required"}.Err()
		}
		e.Services = append(e.Services, models.Service{Title: args[1], Description: strings.Join(args[2:], " ")})
	case "remove":
		i, err := index(args[1])
		if err != nil {
			return err
		}
		if i < len(e.Services) {
			e.Services = append(e.Services[:i:i], e.Services[i+1:]...)
		}
	default:
		return usageError(usage)
	}
	c.printServices(e.Services)
	return nil
}

func (c *Console) job(ctx context.Context, args []string) error {
	const usage = "job set <unit|quantity|short|detailed|location> <value> | cert <name> | image <path> | load <file> | show | post"
	if len(args) < 1 {
		return usageError(usage)
	}
	p := c.deps.Jobs

	switch args[0] {
	case "set":
		if len(args) < 2 {
			return usageError(usage)
		}
		value := strings.Join(args[2:], " ")
		switch args[1] {
		case "unit":
			p.Job.UnitType = models.UnitType(strings.ToUpper(value))
		case "quantity":
			n, err := strconv.Atoi(value)
			if err != nil {
				return validation.FieldErrors{"orderQuantity": "Order quantity must be a positive number"}.Err()
			}
			p.Job.OrderQuantity = n
		case "short":
			p.Job.ShortDescription = value
		case "detailed":
			p.Job.DetailedDescription = value
		case "location":
			p.Job.Location = value
		default:
			return usageError(usage)
		}
	case "cert":
		name := strings.Join(args[1:], " ")
		if !models.IsCertification(name) {
			return validation.FieldErrors{"certifications": "Unknown certification"}.Err()
		}
		p.ToggleCertification(name)
	case "image":
		images, err := submission.LoadAttachments(args[1:])
		if err != nil {
			return err
		}
		p.Images = append(p.Images, images...)
	case "load":
		if len(args) != 2 {
			return usageError("job load <job.yaml>")
		}
		f, err := LoadJobFile(findFile(c.deps.DraftDir, args[1]))
		if err != nil {
			return err
		}
		if err := f.Apply(p); err != nil {
			return err
		}
		c.printJob()
	case "show":
		c.printJob()
	case "post":
		return p.Submit(ctx)
	default:
		return usageError(usage)
	}
	return nil
}

func (c *Console) printJob() {
	j := c.deps.Jobs.Job
	c.printf("  Unit type:      %s\n", j.UnitType.Label())
	c.printf("  Order quantity: %d\n", j.OrderQuantity)
	c.printf("  Short:          %s\n", j.ShortDescription)
	if j.DetailedDescription != "" {
		c.printf("  Detailed:       %s\n", j.DetailedDescription)
	}
	c.printf("  Location:       %s\n", j.Location)
	if len(j.Certifications) > 0 {
		c.printf("  Certifications: %s\n", strings.Join(j.Certifications, ", "))
	}
	c.printf("  Images:         %d\n", len(c.deps.Jobs.Images))
}
