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
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/autoeth/tc8verify/pkg/tc8"
	"github.com/autoeth/tc8verify/private/catalog"
)

func newSpecsCmd(env *rootEnv) *cobra.Command {
	var section string
	cmd := &cobra.Command{
		Use:   "specs",
		Short: "List the loaded specification catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := catalog.Load(env.cfg.Paths.SpecDir, env.cfg.Paths.Tiers)
			if err != nil {
				return err
			}
			specs := cat.AllSpecs()
			if section != "" {
				specs = cat.SpecsForSection(tc8.Section(section))
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"Spec ID", "Reference", "Section", "Priority", "Title"})
			table.SetBorder(false)
			for _, spec := range specs {
				table.Append([]string{
					spec.SpecID, spec.TC8Reference,
					spec.Section.Name(), spec.Priority, spec.Title,
				})
			}
			table.Render()
			return nil
		},
	}
	cmd.Flags().StringVar(&section, "section", "",
		"Only list specs of one TC8 section, e.g. 5.3")
	return cmd
}
