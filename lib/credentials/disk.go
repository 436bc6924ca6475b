/*
Copyright 2015-2021 Gravitational, Inc.

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

package credentials

import (
	"context"

	"github.com/gravitational/trace"
	"github.com/peterbourgon/diskv/v3"
)

const (
	// cacheSizeMaxBytes max memory cache
	cacheSizeMaxBytes = 1024

	// accessTokenName is the access token key name
	accessTokenName = "access_token"

	// refreshTokenName is the refresh token key name
	refreshTokenName = "refresh_token"
)

// DiskStore keeps each token in its own file under a storage directory.
type DiskStore struct {
	// dv is a diskv instance
	dv *diskv.Diskv
}

// NewDiskStore creates a store rooted at dir.
func NewDiskStore(dir string) (*DiskStore, error) {
	if dir == "" {
		return nil, trace.BadParameter("missing storage directory")
	}

	// Simplest transform function: put all the data files into the base dir.
	flatTransform := func(s string) []string { return []string{} }

	dv := diskv.New(diskv.Options{
		BasePath:     dir,
		Transform:    flatTransform,
		CacheSizeMax: cacheSizeMaxBytes,
		FilePerm:     0600,
	})

	return &DiskStore{dv: dv}, nil
}

func (d *DiskStore) GetCredentials(_ context.Context) (*Credentials, error) {
	accessToken, err := d.getStringValue(accessTokenName)
	if err != nil {
		return nil, trace.Wrap(err)
	}
	refreshToken, err := d.getStringValue(refreshTokenName)
	if err != nil {
		return nil, trace.Wrap(err)
	}

	creds := &Credentials{AccessToken: accessToken, RefreshToken: refreshToken}
	if creds.IsEmpty() {
		return nil, trace.NotFound("no credentials stored in %v", d.dv.BasePath)
	}
	return creds, nil
}

func (d *DiskStore) PutCredentials(_ context.Context, creds *Credentials) error {
	if creds == nil {
		return trace.BadParameter("missing credentials")
	}
	if err := d.setStringValue(accessTokenName, creds.AccessToken); err != nil {
		return trace.Wrap(err)
	}
	return trace.Wrap(d.setStringValue(refreshTokenName, creds.RefreshToken))
}

func (d *DiskStore) DeleteCredentials(_ context.Context) error {
	for _, name := range []string{accessTokenName, refreshTokenName} {
		if err := d.erase(name); err != nil {
			return trace.Wrap(err)
		}
	}
	return nil
}

// getStringValue gets a string value, empty if the key is missing
func (d *DiskStore) getStringValue(name string) (string, error) {
	if !d.dv.Has(name) {
		return "", nil
	}

	b, err := d.dv.Read(name)
	if err != nil {
		return "", trace.Wrap(err)
	}

	return string(b), nil
}

// setStringValue sets a string value, an empty value erases the key
func (d *DiskStore) setStringValue(name string, value string) error {
	if value == "" {
		return d.erase(name)
	}
	return trace.Wrap(d.dv.Write(name, []byte(value)))
}

func (d *DiskStore) erase(name string) error {
	if !d.dv.Has(name) {
		return nil
	}
	return trace.Wrap(d.dv.Erase(name))
}
