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

// Command tc8verify runs OPEN Alliance TC8 Layer 2 conformance suites
// against automotive Ethernet switches.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/autoeth/tc8verify/pkg/log"
	"github.com/autoeth/tc8verify/private/config"
)

func main() {
	defer log.HandlePanic()
	defer log.Flush()
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// rootEnv carries the loaded configuration to the subcommands.
type rootEnv struct {
	configPath string
	cfg        config.Config
}

func newRootCmd() *cobra.Command {
	env := &rootEnv{}
	cmd := &cobra.Command{
		Use:           "tc8verify",
		Short:         "TC8 Layer 2 conformance testing for automotive Ethernet switches",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(env.configPath)
			if err != nil {
				return err
			}
			env.cfg = cfg
			return log.Setup(cfg.Logging)
		},
	}
	cmd.PersistentFlags().StringVar(&env.configPath, "config", "",
		"Path to the tool configuration file")

	cmd.AddCommand(
		newRunCmd(env),
		newSpecsCmd(env),
		newReportCmd(env),
		newServeCmd(env),
	)
	return cmd
}
