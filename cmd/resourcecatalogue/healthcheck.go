// Copyright (C) 2026 the Resource Catalogue Authors
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.
//
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"

	"github.com/madgik/resource-catalogue-go/internal/common"
)

const defaultHealthPort = "8080"

var healthOpts = struct {
	url     string
	quiet   bool
	timeout time.Duration
}{timeout: 5 * time.Second}

// healthCheckCmd checks the health endpoint of a running server. It is meant for
// container images without a shell or curl.
var healthCheckCmd = &cobra.Command{
	Use:           "healthcheck [url]",
	Short:         "Exits non-zero unless the health endpoint reports UP",
	Args:          cobra.MaximumNArgs(1),
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		url := healthOpts.url
		if len(args) == 1 {
			url = args[0]
		}
		if url == "" {
			url = defaultHealthURL()
		}
		err := checkHealth(resty.New().SetTimeout(healthOpts.timeout), url, cmd)
		if err != nil && !healthOpts.quiet {
			fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
		}
		return err
	},
}

func defaultHealthURL() string {
	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = defaultHealthPort
	}
	return fmt.Sprintf("http://127.0.0.1:%s%s", port, common.JoinPath(os.Getenv("SERVER_CONTEXTPATH"), "/health"))
}

func checkHealth(client *resty.Client, url string, cmd *cobra.Command) error {
	res, err := client.R().Get(url)
	if err != nil {
		return fmt.Errorf("HEALTHCHECK-REQUESTFAILED: %w", err)
	}
	if res.StatusCode() >= http.StatusBadRequest {
		return fmt.Errorf("HEALTHCHECK-UNHEALTHY: %d", res.StatusCode())
	}
	if !healthOpts.quiet {
		fmt.Fprintln(cmd.OutOrStdout(), res.String())
	}
	return nil
}

func init() {
	healthCheckCmd.Flags().StringVar(&healthOpts.url, "url", "", "Health endpoint, defaults to SERVER_PORT and SERVER_CONTEXTPATH on localhost")
	healthCheckCmd.Flags().BoolVarP(&healthOpts.quiet, "quiet", "q", false, "Prints nothing")
	healthCheckCmd.Flags().DurationVar(&healthOpts.timeout, "timeout", healthOpts.timeout, "Request timeout")
	rootCmd.AddCommand(healthCheckCmd)
}
