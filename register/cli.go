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
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/gravitational/trace"
	toml "github.com/pelletier/go-toml"

	"github.com/gravitational/account-registration/account"
	"github.com/gravitational/account-registration/lib/credentials"
	"github.com/gravitational/account-registration/lib/logger"
)

const (
	appName        = "register"
	appDescription = "Creates an account and keeps the issued session tokens"

	// credentialsFileName is the file used by the "file" storage backend
	credentialsFileName = "credentials.json"
)

// APIConfig is the account API connection configuration
type APIConfig struct {
	// URL is the API base address
	URL string `help:"Account API base URL" default:"http://localhost:4000" env:"ACCTREG_API_URL" name:"api-url"`

	// Timeout bounds each request, zero leaves it unbounded
	Timeout time.Duration `help:"Request timeout, 0 for none" default:"0s" env:"ACCTREG_API_TIMEOUT" name:"api-timeout"`
}

// StorageConfig is the session token storage configuration
type StorageConfig struct {
	// Dir is where the tokens are kept between runs
	Dir string `help:"Session storage directory" type:"path" default:"~/.account-registration" env:"ACCTREG_STORAGE_DIR" name:"storage-dir"`

	// Backend selects how tokens are written
	Backend string `help:"Session storage backend" enum:"disk,file,memory" default:"disk" env:"ACCTREG_STORAGE_BACKEND" name:"storage-backend"`
}

// NewStore builds the configured credentials store
func (c StorageConfig) NewStore() (credentials.Store, error) {
	switch c.Backend {
	case "memory":
		return credentials.NewMemoryStore(), nil
	case "file":
		return credentials.NewFileStore(filepath.Join(c.Dir, credentialsFileName))
	case "", "disk":
		return credentials.NewDiskStore(c.Dir)
	default:
		return nil, trace.BadParameter("unknown storage backend %q", c.Backend)
	}
}

// OpenSession opens the session persisted by the configured store
func (c StorageConfig) OpenSession(ctx context.Context) (*credentials.Session, error) {
	store, err := c.NewStore()
	if err != nil {
		return nil, trace.Wrap(err)
	}
	session, err := credentials.NewSession(ctx, store)
	return session, trace.Wrap(err)
}

// NewClient builds the API client bound to session
func (c APIConfig) NewClient(session *credentials.Session) (*account.Client, error) {
	client, err := account.NewClient(account.Config{
		BaseURL: c.URL,
		Tokens:  session,
		Timeout: c.Timeout,
	})
	return client, trace.Wrap(err)
}

// CLI represents command structure
type CLI struct {
	// Config is the path to configuration file
	Config kong.ConfigFlag `help:"Path to TOML configuration file" optional:"true" type:"existingfile" env:"ACCTREG_CONFIG"`

	// Debug is a debug logging mode flag
	Debug bool `help:"Debug logging" short:"d" env:"ACCTREG_DEBUG"`

	// LogFormat is the log output format
	LogFormat string `help:"Log format" enum:"text,json" default:"text" env:"ACCTREG_LOG_FORMAT"`

	// Version is the version print command
	Version VersionCmd `cmd:"true" help:"Print version"`

	// Signup is the account registration command
	Signup SignupCmd `cmd:"true" help:"Create a new account"`

	// Whoami prints the stored session
	Whoami WhoamiCmd `cmd:"true" help:"Show the stored session"`

	// Logout clears the stored session
	Logout LogoutCmd `cmd:"true" help:"Forget the stored session tokens"`
}

// LoggerConfig returns the logger settings selected on the command line
func (c *CLI) LoggerConfig() logger.Config {
	conf := logger.Config{Output: "stderr", Severity: "info", Format: c.LogFormat}
	if c.Debug {
		conf.Severity = "debug"
	}
	return conf
}

// TOML is the kong resolver function for toml configuration file
func TOML(r io.Reader) (kong.Resolver, error) {
	config, err := toml.LoadReader(r)
	if err != nil {
		return nil, trace.Wrap(err)
	}

	// ResolverFunc reads configuration variables from the external source, TOML file in this case.
	// "api-url" is looked up as "api.url" first, then as a top-level "api-url" key.
	var f kong.ResolverFunc = func(context *kong.Context, parent *kong.Path, flag *kong.Flag) (interface{}, error) {
		name := flag.Name

		if value := config.Get(strings.ReplaceAll(name, "-", ".")); value != nil {
			if _, isTable := value.(*toml.Tree); !isTable {
				return value, nil
			}
		}

		if value := config.Get(name); value != nil {
			if _, isTable := value.(*toml.Tree); !isTable {
				return value, nil
			}
		}

		return nil, nil
	}

	return f, nil
}
