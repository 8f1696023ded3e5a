package cmd

import (
	"context"
	"errors"
	"fmt"

	colorize "github.com/fatih/color"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/devmatch/devmatch/internal/api"
	"github.com/devmatch/devmatch/internal/cep"
	"github.com/devmatch/devmatch/internal/config"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "View and complete your account profile",
}

var profileCategoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List the account categories",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		for _, c := range api.Categories {
			fmt.Printf("%s %s\n", colorize.HiWhiteString(c.Title), colorize.CyanString("(--as %s)", categoryFlag(c.Role)))
			fmt.Printf("  %s\n\n", c.Description)
		}
	},
}

func categoryFlag(r api.Role) string {
	if r == api.Company {
		return "company"
	}
	return "freelancer"
}

func roleFlag(cmd *cobra.Command) (api.Role, error) {
	as, _ := cmd.Flags().GetString("as")
	return api.ParseRole(as)
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the account data behind your session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}
		role, err := roleFlag(cmd)
		if err != nil {
			return err
		}

		client, err := newClient(cfg, true)
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.RequestTimeout())
		defer cancel()

		user, err := client.Profile(ctx, role)
		if err != nil {
			return err
		}

		fmt.Println(colorize.CyanString("ID:    ") + user.ID)
		fmt.Println(colorize.CyanString("Name:  ") + user.Name)
		fmt.Println(colorize.CyanString("Email: ") + user.Email)
		return nil
	},
}

var profileSetupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Complete your freelancer or company profile",
	Long: `Setup submits the profile form for your account category.

The address is filled in from the CEP when --cep is given; flags you pass
explicitly are kept. Freelancers must give a nickname, a seniority and one
to three skills.

Examples:
  devmatch profile setup --as freelancer --nickname ana --seniority senior \
    --skills Go,SQL --cep 01001-000 --photo ./me.jpg
  devmatch profile setup --as company --document 12.345.678/0001-90 --area Retail`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}
		role, err := roleFlag(cmd)
		if err != nil {
			return err
		}

		client, err := newClient(cfg, true)
		if err != nil {
			return err
		}

		flags := cmd.Flags()
		str := func(name string) string {
			v, _ := flags.GetString(name)
			return v
		}

		addr := api.Address{
			CEP:      str("cep"),
			State:    str("state"),
			City:     str("city"),
			District: str("district"),
			Street:   str("street"),
		}
		if addr.CEP != "" {
			lookup := cep.New(cfg.CEPURL, cfg.CEPTimeout())
			if err := autofillAddress(cmd.Context(), lookup, &addr); err != nil {
				fmt.Println(colorize.YellowString("Could not fill the address from the CEP: %v", err))
			}
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.RequestTimeout())
		defer cancel()

		var msg string
		switch role {
		case api.Freelancer:
			skills, _ := flags.GetStringSlice("skills")
			form := api.FreelancerForm{
				Nickname:  str("nickname"),
				Document:  str("document"),
				Phone:     str("phone"),
				Address:   addr,
				Area:      str("area"),
				Bio:       str("bio"),
				Seniority: str("seniority"),
				Skills:    skills,
				BirthDate: str("birth-date"),
				Photo:     str("photo"),
			}

			// the form is tied to the account id when the backend hands it out
			user, err := client.Profile(ctx, api.Freelancer)
			switch {
			case errors.Is(err, api.ErrUnauthorized):
				return err
			case err != nil:
				log.WithError(err).Warn("submitting without a user id")
			default:
				form.UserID = user.NumericID()
			}

			msg, err = client.SubmitFreelancer(ctx, form)
			if err != nil {
				return err
			}
		case api.Company:
			balance, _ := flags.GetInt("balance")
			msg, err = client.SubmitCompany(ctx, api.CompanyForm{
				Document: str("document"),
				Phone:    str("phone"),
				Address:  addr,
				Area:     str("area"),
				Bio:      str("bio"),
				Balance:  balance,
				Photo:    str("photo"),
			})
			if err != nil {
				return err
			}
		}

		fmt.Println(colorize.GreenString("%s", msg))
		return nil
	},
}

// autofillAddress completes the empty address fields from the CEP
func autofillAddress(ctx context.Context, c *cep.Client, addr *api.Address) error {
	found, err := c.Lookup(ctx, addr.CEP)
	if err != nil {
		return err
	}

	fill := func(dst *string, v string) {
		if *dst == "" {
			*dst = v
		}
	}
	fill(&addr.State, found.State)
	fill(&addr.City, found.City)
	fill(&addr.District, found.District)
	fill(&addr.Street, found.Street)

	log.WithField("cep", addr.CEP).Debugf("address filled: %s", found)
	return nil
}

func init() {
	RootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(profileCategoriesCmd, profileShowCmd, profileSetupCmd)

	for _, c := range []*cobra.Command{profileShowCmd, profileSetupCmd} {
		c.Flags().String("as", "freelancer", "Account category: freelancer or company")
	}

	f := profileSetupCmd.Flags()
	f.String("nickname", "", "Nickname shown to companies (freelancer)")
	f.String("document", "", "CPF or CNPJ")
	f.String("phone", "", "Phone number")
	f.String("cep", "", "Postal code; fills the address")
	f.String("state", "", "State")
	f.String("city", "", "City")
	f.String("district", "", "District")
	f.String("street", "", "Street")
	f.String("area", "", "Field of work")
	f.String("bio", "", "Short biography")
	f.String("seniority", "", "Seniority, e.g. junior, mid, senior (freelancer)")
	f.StringSlice("skills", nil, "Up to three skills, the first is the main one (freelancer)")
	f.String("birth-date", "", "Birth date as dd/mm/yyyy (freelancer)")
	f.String("photo", "", "Path to a profile photo")
	f.Int("balance", api.DefaultCompanyBalance, "Starting balance (company)")
}
