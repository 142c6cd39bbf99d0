package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dimitrije/crowdfund-api/pkg/client"
	"github.com/dimitrije/crowdfund-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var errUsage = errors.New("invalid usage")

type cli struct {
	baseURL     string
	sessionFile string
	in          io.Reader
	out         io.Writer
	errOut      io.Writer

	c      *client.Client
	router *client.Router
}

func (a *cli) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(a.errOut, usage())
		return errUsage
	}

	log := zerolog.New(zerolog.ConsoleWriter{Out: a.errOut, NoColor: true, PartsExclude: []string{zerolog.TimestampFieldName}})
	a.router = client.NewRouter(client.RouteHome)
	a.c = client.New(a.baseURL,
		client.WithSessionFile(a.sessionFile),
		client.WithNotifier(client.NewLogNotifier(log)),
		client.WithNavigator(a.router),
		client.WithConfirmer(a.confirm),
	)
	defer a.c.Close()

	if err := a.c.Start(ctx); err != nil {
		return err
	}

	cmd, rest := args[0], args[1:]
	var err error
	switch cmd {
	case "signup":
		err = a.signUp(ctx, rest)
	case "signin":
		err = a.signIn(ctx, rest)
	case "signout":
		err = a.c.SignOut(ctx)
	case "whoami":
		err = a.whoami()
	case "passwd":
		err = a.passwd(ctx, rest)
	case "profile":
		err = a.profile(ctx, rest)
	case "campaigns":
		err = a.campaigns(ctx)
	case "campaign":
		err = a.campaign(ctx, rest)
	case "create":
		err = a.create(ctx, rest)
	case "donate":
		err = a.donate(ctx, rest)
	case "testimonials":
		err = a.testimonials(ctx)
	case "testimonial":
		err = a.testimonial(ctx, rest)
	case "admin":
		err = a.admin(ctx, rest)
	case "help", "-h", "--help":
		fmt.Fprint(a.out, usage())
	default:
		fmt.Fprintf(a.errOut, "unknown command %q\n\n%s", cmd, usage())
		err = errUsage
	}

	if a.router.Current() != client.RouteHome {
		fmt.Fprintf(a.out, "-> %s\n", a.router.Current())
	}
	return err
}

func (a *cli) signUp(ctx context.Context, args []string) error {
	if len(args) < 3 {
		return a.usageErr("signup <email> <password> <full name>")
	}
	if _, err := a.c.SignUp(ctx, args[0], args[1], strings.Join(args[2:], " ")); err != nil {
		return err
	}
	a.c.Profile.Wait()
	return a.whoami()
}

func (a *cli) signIn(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return a.usageErr("signin <email> <password>")
	}
	if _, err := a.c.SignIn(ctx, args[0], args[1]); err != nil {
		return err
	}
	a.c.Profile.Wait()
	return a.whoami()
}

func (a *cli) whoami() error {
	a.c.Profile.Wait()
	identity := a.c.Session.Identity()
	if identity == nil {
		fmt.Fprintln(a.out, "not signed in")
		return nil
	}

	fmt.Fprintf(a.out, "%s <%s>\n", identity.ID, identity.Email)
	if p := a.c.Profile.Profile(); p != nil {
		fmt.Fprintf(a.out, "name: %s\nusername: %s\nadmin: %t\n", deref(p.FullName), deref(p.Username), p.IsAdmin)
	}
	return nil
}

func (a *cli) passwd(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return a.usageErr("passwd <current> <new>")
	}
	return a.c.UpdatePassword(ctx, args[0], args[1])
}

func (a *cli) profile(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("profile", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	name := fs.String("name", "", "full name")
	username := fs.String("username", "", "username")
	avatar := fs.String("avatar", "", "avatar image file")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	var fullName, user *string
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "name":
			fullName = name
		case "username":
			user = username
		}
	})

	if fullName != nil || user != nil {
		if _, err := a.c.Profiles.Update(ctx, fullName, user); err != nil {
			return err
		}
	}
	if *avatar != "" {
		data, err := os.ReadFile(*avatar)
		if err != nil {
			return err
		}
		if _, err := a.c.Profiles.UploadAvatar(ctx, data); err != nil {
			return err
		}
	}
	return a.whoami()
}

func (a *cli) campaigns(ctx context.Context) error {
	list, err := a.c.Campaigns.ListActive(ctx)
	if err != nil {
		return err
	}
	a.printCampaigns(list)
	return nil
}

func (a *cli) campaign(ctx context.Context, args []string) error {
	id, err := a.idArg(args, "campaign <id>")
	if err != nil {
		return err
	}

	c, err := a.c.Campaigns.Get(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s\n%s\n\ncategory: %s\nstatus: %s\nraised: %.2f of %.2f (%.0f%%)\ndonations: %d\nends: %s\n",
		c.Title, c.Description, c.Category, c.Status, c.CurrentAmount, c.GoalAmount, c.Progress,
		c.DonationsCount, c.EndDate.Format(time.DateOnly))

	donations, err := a.c.Campaigns.Donations(ctx, id)
	if err != nil {
		return err
	}
	if len(donations) > 0 {
		fmt.Fprintln(a.out)
		a.printDonations(donations)
	}
	return nil
}

func (a *cli) create(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("create", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	title := fs.String("title", "", "campaign title")
	description := fs.String("description", "", "campaign description")
	category := fs.String("category", "", "campaign category")
	goal := fs.Float64("goal", 0, "goal amount")
	end := fs.String("end", "", "end date (YYYY-MM-DD)")
	image := fs.String("image", "", "campaign image file")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	endDate, err := time.Parse(time.DateOnly, *end)
	if err != nil {
		return a.usageErr("create ... -end YYYY-MM-DD")
	}

	in := client.CampaignInput{
		Title:       *title,
		Description: *description,
		Category:    *category,
		GoalAmount:  *goal,
		EndDate:     endDate,
	}
	if *image != "" {
		if in.Image, err = os.ReadFile(*image); err != nil {
			return err
		}
	}

	created, err := a.c.Campaigns.Create(ctx, in)
	if created != nil {
		fmt.Fprintf(a.out, "campaign %s submitted for review (%s)\n", created.ID, created.Status)
	}
	return err
}

func (a *cli) donate(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return a.usageErr("donate <campaign-id> <amount>")
	}
	id, err := uuid.Parse(args[0])
	if err != nil {
		return a.usageErr("donate <campaign-id> <amount>")
	}
	amount, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return a.usageErr("donate <campaign-id> <amount>")
	}

	donation, err := a.c.Donations.Submit(ctx, id, amount)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "donated %.2f (%s)\n", donation.Amount, donation.PaymentStatus)
	return nil
}

func (a *cli) testimonials(ctx context.Context) error {
	list, err := a.c.Testimonials.Featured(ctx)
	if err != nil {
		return err
	}
	a.printTestimonials(list)
	return nil
}

func (a *cli) testimonial(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("testimonial", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	content := fs.String("content", "", "testimonial text")
	role := fs.String("role", "", "your role")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	_, err := a.c.Testimonials.Submit(ctx, *content, *role)
	return err
}

func (a *cli) admin(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return a.usageErr("admin <subcommand>")
	}
	adm := a.c.Admin
	sub, rest := args[0], args[1:]

	switch sub {
	case "stats":
		s, err := adm.Stats(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "total raised: %.2f\nactive campaigns: %d\npending campaigns: %d\n",
			s.TotalRaised, s.ActiveCampaigns, s.PendingCampaigns)
		return nil
	case "campaigns":
		list, err := adm.Campaigns(ctx)
		if err != nil {
			return err
		}
		a.printCampaigns(list)
		return nil
	case "donations":
		list, err := adm.RecentDonations(ctx)
		if err != nil {
			return err
		}
		a.printDonations(list)
		return nil
	case "testimonials":
		list, err := adm.Testimonials(ctx)
		if err != nil {
			return err
		}
		a.printTestimonials(list)
		return nil
	case "profiles":
		list, err := adm.Profiles(ctx)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tUSERNAME\tADMIN")
		for _, p := range list {
			fmt.Fprintf(w, "%s\t%s\t%s\t%t\n", p.ID, deref(p.FullName), deref(p.Username), p.IsAdmin)
		}
		return w.Flush()
	}

	id, err := a.idArg(rest, "admin "+sub+" <id>")
	if err != nil {
		return err
	}

	switch sub {
	case "approve":
		_, err = adm.ApproveCampaign(ctx, id)
	case "reject":
		_, err = adm.RejectCampaign(ctx, id)
	case "delete":
		err = adm.DeleteCampaign(ctx, id)
		if errors.Is(err, client.ErrCancelled) {
			fmt.Fprintln(a.out, "not deleted")
			return nil
		}
	case "complete":
		_, err = adm.CompleteDonation(ctx, id)
	case "approve-testimonial":
		_, err = adm.ApproveTestimonial(ctx, id)
	case "reject-testimonial":
		_, err = adm.RejectTestimonial(ctx, id)
	case "feature", "unfeature":
		_, err = adm.SetFeatured(ctx, id, sub == "feature")
	case "grant", "revoke":
		_, err = adm.SetAdmin(ctx, id, sub == "grant")
	default:
		return a.usageErr("admin <subcommand>")
	}
	return err
}

// confirm reads a y/N answer.
func (a *cli) confirm(prompt string) bool {
	fmt.Fprintf(a.out, "%s [y/N] ", prompt)
	line, _ := bufio.NewReader(a.in).ReadString('\n')
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func (a *cli) idArg(args []string, form string) (uuid.UUID, error) {
	if len(args) != 1 {
		return uuid.Nil, a.usageErr(form)
	}
	id, err := uuid.Parse(args[0])
	if err != nil {
		return uuid.Nil, a.usageErr(form)
	}
	return id, nil
}

func (a *cli) usageErr(form string) error {
	fmt.Fprintf(a.errOut, "usage: crowdfund %s\n", form)
	return errUsage
}

func (a *cli) printCampaigns(list []dto.CampaignResponse) {
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tSTATUS\tRAISED\tGOAL\tPROGRESS")
	for _, c := range list {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%.2f\t%.0f%%\n", c.ID, c.Title, c.Status, c.CurrentAmount, c.GoalAmount, c.Progress)
	}
	_ = w.Flush()
}

func (a *cli) printDonations(list []dto.DonationResponse) {
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCAMPAIGN\tDONOR\tAMOUNT\tSTATUS\tDATE")
	for _, d := range list {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%s\t%s\n", d.ID, deref(d.CampaignTitle), deref(d.DonorName),
			d.Amount, d.PaymentStatus, d.CreatedAt.Format(time.DateOnly))
	}
	_ = w.Flush()
}

func (a *cli) printTestimonials(list []dto.TestimonialResponse) {
	for _, t := range list {
		fmt.Fprintf(a.out, "%q\n  %s", t.Content, deref(t.AuthorName))
		if t.Role != nil {
			fmt.Fprintf(a.out, ", %s", *t.Role)
		}
		fmt.Fprintf(a.out, " [%s, featured=%t, %s]\n", t.Status, t.IsFeatured, t.ID)
	}
}

func deref(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}
