// Copyright 2025 Autoeth Project
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/autoeth/tc8verify/pkg/log"
	"github.com/autoeth/tc8verify/pkg/private/serrors"
	"github.com/autoeth/tc8verify/private/mgmtapi"
	"github.com/autoeth/tc8verify/private/report"
)

func newServeCmd(env *rootEnv) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve stored reports over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			listen := addr
			if listen == "" {
				listen = env.cfg.API.Addr
			}
			if listen == "" {
				return serrors.New("no listen address configured")
			}
			store, err := report.NewStore(env.cfg.Paths.ReportDB)
			if err != nil {
				return err
			}
			defer store.Close()

			server := &http.Server{
				Addr:    listen,
				Handler: (&mgmtapi.Server{Store: store}).Router(),
			}
			ctx, stop := signal.NotifyContext(cmd.Context(),
				os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				defer log.HandlePanic()
				errCh <- server.ListenAndServe()
			}()
			log.Info("Report API listening", "addr", listen)

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}
			shutdownCtx, cancel := context.WithTimeout(
				context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "",
		"Listen address (overrides the configured one)")
	return cmd
}
