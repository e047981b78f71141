package cmd

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/nfrund/learnova/internal/apiclient"
	"github.com/nfrund/learnova/internal/config"
	"github.com/spf13/cobra"
	"golang.org/x/net/publicsuffix"
)

var (
	probeAPI      string
	probeTimeout  time.Duration
	probeInsecure bool
)

// anonymous is a logged-out browser: no token, an empty cookie jar.
type anonymous struct {
	jar http.CookieJar
}

func (a *anonymous) Token() string { return "" }

func (a *anonymous) Jar() http.CookieJar { return a.jar }

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Check that the auth API answers",
	Long: `Send a token refresh as a logged-out browser. A reachable API rejects it
with an error envelope, which counts as a pass; a transport failure does not.

Examples:
  learnova-cli probe
  learnova-cli probe --api https://api.learnova.example
  learnova-cli probe --api https://staging.internal --insecure`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := []apiclient.Option{apiclient.WithTimeout(probeTimeout)}
		if probeInsecure {
			transport := http.DefaultTransport.(*http.Transport).Clone()
			transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
			opts = append(opts, apiclient.WithHTTPClient(&http.Client{Transport: transport}))
		}
		client, err := apiclient.New(probeAPI, opts...)
		if err != nil {
			return err
		}
		jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), probeTimeout)
		defer cancel()

		out := cmd.OutOrStdout()
		_, err = client.For(&anonymous{jar: jar}).RefreshToken(ctx)

		var apiErr *apiclient.APIError
		switch {
		case err == nil:
			fmt.Fprintf(out, "✅ %s answered the refresh\n", client.BaseURL())
		case apiclient.IsUnauthorized(err):
			fmt.Fprintf(out, "✅ %s is reachable and rejects anonymous sessions (%s)\n", client.BaseURL(), apiclient.MessageOf(err))
		case errors.As(err, &apiErr):
			fmt.Fprintf(out, "✅ %s is reachable (status %d: %s)\n", client.BaseURL(), apiErr.Status, apiclient.MessageOf(err))
		default:
			fmt.Fprintf(out, "❌ %s is unreachable: %v\n", client.BaseURL(), err)
			return err
		}
		return nil
	},
}

func init() {
	probeCmd.Flags().StringVar(&probeAPI, "api", config.DefaultAPIBaseURL, "API origin to probe")
	probeCmd.Flags().DurationVar(&probeTimeout, "timeout", 5*time.Second, "how long to wait for an answer")
	probeCmd.Flags().BoolVar(&probeInsecure, "insecure", false, "skip TLS certificate verification")
	rootCmd.AddCommand(probeCmd)
}
