/*
   Copyright 2025 The DIRPX Authors.

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

package locator_test

import (
	"context"
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/pkgdata/apis"
	"dirpx.dev/pkgdata/capability"
	"dirpx.dev/pkgdata/locator"
	"dirpx.dev/pkgdata/registry"
)

func TestLocation(t *testing.T) {
	cases := map[string]string{
		"file:/C:/java/repo/greenmail/1.3/greenmail-1.3.jar": "greenmail-1.3.jar",
		"/home/u/myapp/classes/":                             "classes/",
		`C:\work\myapp\classes\`:                             `classes\`,
		`C:\work\myapp\lib.jar`:                              "lib.jar",
		"/go/pkg/mod/example.com/lib@v1.2.0/":                "lib@v1.2.0/",
		"/":                                                  "/",
		"/rootfile":                                          apis.NA,
		"plain":                                              apis.NA,
		"":                                                   apis.NA,
	}
	for origin, want := range cases {
		assert.Equal(t, want, locator.Location(origin), "origin %q", origin)
	}
}

func TestCodeOrigin(t *testing.T) {
	cases := map[string]string{
		"/go/pkg/mod/example.com/lib@v1.2.0/gear/gear.go": "/go/pkg/mod/example.com/lib@v1.2.0/",
		"/go/pkg/mod/example.com/lib@v1.2.0/lib.go":       "/go/pkg/mod/example.com/lib@v1.2.0/",
		"/src/app/internal/x.go":                          "/src/app/internal/",
		"/var/jenkins/workspace@2/pkg/foo/x.go":           "/var/jenkins/workspace@2/pkg/foo/",
		"/ci/job@2/mod/example.com/lib@v1.2.0/lib.go":     "/ci/job@2/mod/example.com/lib@v1.2.0/",
		"/ci/mod/example.com/lib@v1.2.0/x@tmp/y.go":       "/ci/mod/example.com/lib@v1.2.0/",
		`C:\src\app\x.go`:                                 `C:\src\app\`,
		"x.go":                                            "x.go",
		"":                                                "",
	}
	for file, want := range cases {
		assert.Equal(t, want, locator.CodeOrigin(file), "file %q", file)
	}
	// An '@' outside the module cache is part of the directory name.
	assert.Equal(t, "foo/", locator.Location(locator.CodeOrigin("/var/jenkins/workspace@2/pkg/foo/x.go")))
}

func TestOriginVersion(t *testing.T) {
	cases := map[string]string{
		"/go/pkg/mod/example.com/lib@v1.2.0/":      "v1.2.0",
		"/go/pkg/mod/example.com/lib@v1.0.0-!r!c1/": "v1.0.0-RC1",
		"/go/pkg/mod/example.com/lib@latest/":      "",
		"/src/app/":                                "",
		"":                                         "",
	}
	for origin, want := range cases {
		assert.Equal(t, want, locator.OriginVersion(origin), "origin %q", origin)
	}
}

func modules() apis.Capabilities {
	return apis.Capabilities{Modules: capability.FromBuildInfo(&debug.BuildInfo{
		GoVersion: "go1.25.4",
		Main:      debug.Module{Path: "example.com/app", Version: "(devel)"},
		Deps: []*debug.Module{
			{Path: "example.com/lib", Version: "v1.2.0"},
			{Path: "example.com/nover"},
		},
	})}
}

func TestLocate_ModuleSystemFirst(t *testing.T) {
	reg := registry.New()
	require.NoError(t, reg.Declare("example.com/lib", "v9.9.9"))
	l := locator.New(modules(), reg)
	ctx := context.Background()

	got := l.Locate(ctx, &apis.Type{Package: "example.com/lib/gear", File: "/elsewhere/gear.go"})
	assert.Equal(t, apis.PackagingInfo{Location: "example.com/lib", Version: "v1.2.0"}, got)

	got = l.Locate(ctx, &apis.Type{Package: "net/http", File: "/usr/local/go/src/net/http/server.go"})
	assert.Equal(t, apis.PackagingInfo{Location: capability.StdModule, Version: "go1.25.4"}, got)

	got = l.Locate(ctx, &apis.Type{Package: "example.com/nover"})
	assert.Equal(t, apis.PackagingInfo{Location: "example.com/nover", Version: apis.NA}, got)
}

func TestLocate_FallsBackToOrigin(t *testing.T) {
	reg := registry.New()
	require.NoError(t, reg.Declare("example.com/declared", "v3.1.0"))
	ctx := context.Background()

	for _, caps := range []apis.Capabilities{{}, {Modules: capability.Unavailable()}} {
		l := locator.New(caps, reg)

		got := l.Locate(ctx, &apis.Type{
			Package: "example.com/lib/gear",
			File:    "/go/pkg/mod/example.com/lib@v1.2.0/gear/gear.go",
		})
		assert.Equal(t, apis.PackagingInfo{Location: "lib@v1.2.0/", Version: "v1.2.0"}, got)

		got = l.Locate(ctx, &apis.Type{Package: "example.com/declared/x", File: "/src/declared/x/x.go"})
		assert.Equal(t, apis.PackagingInfo{Location: "x/", Version: "v3.1.0"}, got)

		got = l.Locate(ctx, &apis.Type{Package: "example.com/unknown"})
		assert.Equal(t, apis.Unknown(), got)
	}
}

func TestLocate_ModuleMissFallsBack(t *testing.T) {
	l := locator.New(modules(), nil)
	got := l.Locate(context.Background(), &apis.Type{Package: "main", File: "/src/app/main.go"})
	assert.Equal(t, apis.PackagingInfo{Location: "app/", Version: apis.NA}, got)
}

func TestLocate_Nil(t *testing.T) {
	got := locator.New(apis.Capabilities{}, nil).Locate(context.Background(), nil)
	assert.Equal(t, apis.Unknown(), got)
	assert.False(t, got.Exact)
}
