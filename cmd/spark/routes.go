package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/watt-toolkit/spark/internal/site"
	"github.com/watt-toolkit/spark/pkg/spark/proxy"
)

func newRoutesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "Print the route table and static directories in match order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			px := proxy.New(proxy.Config{AllowedHosts: cfg.Proxy.AllowedHosts})

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "METHOD\tPATTERN\tTARGET")
			for _, r := range site.Routes(site.Options{Proxy: px}) {
				target := "handler"
				if r.IsRedirect() {
					target = "redirect " + r.Target()
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Method, r.Pattern, target)
			}
			for _, d := range cfg.Directories() {
				mode := "first level"
				if d.AllowSubdirectories {
					mode = "recursive"
				}
				fmt.Fprintf(tw, "STATIC\t%s\t%s %s\n", d.Prefix, cfg.Static.Root, mode)
			}
			return tw.Flush()
		},
	}
}
