/*
Copyright 2021 Gravitational, Inc.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"context"
	"fmt"

	"github.com/alecthomas/kong"

	"github.com/gravitational/account-registration/lib"
	"github.com/gravitational/account-registration/lib/logger"
)

var (
	// Version is set at build time
	Version = "dev"
	// Gitref is set at build time
	Gitref = ""
)

// VersionCmd prints the version
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("%s %s %s\n", appName, Version, Gitref)
	return nil
}

func main() {
	logger.Init()

	var cli CLI
	ctx := kong.Parse(
		&cli,
		kong.UsageOnError(),
		kong.Configuration(TOML),
		kong.Name(appName),
		kong.Description(appDescription),
	)

	if err := logger.Setup(cli.LoggerConfig()); err != nil {
		lib.Bail(err, cli.Debug)
	}

	// See respective commands Run() methods
	if err := ctx.Run(); err != nil {
		lib.Bail(err, cli.Debug)
	}
}

// commandContext is canceled on SIGINT or SIGTERM
func commandContext() (context.Context, context.CancelFunc) {
	return lib.SignalContext(context.Background())
}
