package cmd

import (
	"fmt"

	colorize "github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/devmatch/devmatch/internal/cep"
	"github.com/devmatch/devmatch/internal/config"
)

var cepCmd = &cobra.Command{
	Use:   "cep [code]",
	Short: "Look up the address of a Brazilian postal code",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}

		addr, err := cep.New(cfg.CEPURL, cfg.CEPTimeout()).Lookup(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Println(colorize.CyanString("CEP:      ") + addr.CEP)
		fmt.Println(colorize.CyanString("Street:   ") + addr.Street)
		fmt.Println(colorize.CyanString("District: ") + addr.District)
		fmt.Println(colorize.CyanString("City:     ") + addr.City)
		fmt.Println(colorize.CyanString("State:    ") + addr.State)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(cepCmd)
}
