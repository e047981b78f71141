package cmd

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/learnova/internal/app"
	"github.com/nfrund/learnova/internal/config"
	"github.com/nfrund/learnova/internal/server"
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
)

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "List the routes the server registers",
	Long: `Build the server from the current environment without starting it and
print every registered route.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromEnv()
		cfg.LogLevel = "error"

		injector := app.New(cfg)
		defer injector.Shutdown()

		srv, err := do.Invoke[*server.Server](injector)
		if err != nil {
			return err
		}

		routes := srv.E.Routes()
		sort.Slice(routes, func(i, j int) bool {
			if routes[i].Path != routes[j].Path {
				return routes[i].Path < routes[j].Path
			}
			return routes[i].Method < routes[j].Method
		})

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "METHOD\tPATH")
		for _, r := range routes {
			if r.Method == echo.RouteNotFound {
				continue
			}
			fmt.Fprintf(w, "%s\t%s\n", r.Method, r.Path)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(routesCmd)
}
