package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/khkim/krxscreen/config"
)

var configOut string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print or write the default configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Default()
		if configOut != "" {
			if err := cfg.SaveToFile(configOut); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", configOut)
			return nil
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}
		fmt.Print(string(data))
		return nil
	},
}

func init() {
	configCmd.Flags().StringVarP(&configOut, "out", "o", "", "write default config to this path instead of stdout")
	rootCmd.AddCommand(configCmd)
}
