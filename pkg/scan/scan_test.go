package scan_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/rpcgen/pkg/decl"
	"github.com/chazu/rpcgen/pkg/resolve"
	"github.com/chazu/rpcgen/pkg/scan"
)

const userAPI = `package api

import (
	"github.com/acme/models"
	r "github.com/chazu/rpcgen/pkg/rpc"
	yaml "gopkg.in/yaml.v3"
	"github.com/hashicorp/hcl/v2"
)

// UserAPI is the user service.
//
//rpc:scope user
type UserAPI interface {
	Base

	GetProfile(id string, cb r.RequestCallback[*models.Profile])

	//rpc:result []*models.Profile
	//rpc:default limit = 20
	//rpc:default offset=0
	ListFriends(limit int, fn func())

	//rpc:method system.ping
	//rpc:notbindable
	Ping(cb r.RequestCallback[Status])

	Settings(cb r.RequestCallback[map[string]yaml.Node], opts ...hcl.Diagnostic)
}

type Plain interface {
	Foo()
}

type Status int

//rpc:scope
func Health(cb r.RequestCallback[any]) {}

func helper() {}
`

func TestSourceDescriptors(t *testing.T) {
	set, err := scan.Source("api.go", []byte(userAPI), scan.Options{SourcePackage: "github.com/acme/api"})
	require.NoError(t, err)

	require.Len(t, set.Groups, 1)
	g := set.Groups[0]
	assert.Equal(t, "UserAPI", g.Name)
	require.NotNil(t, g.Scope)
	assert.Equal(t, "user", *g.Scope)
	assert.Equal(t, "api.go", g.Pos.File)
	assert.Equal(t, 13, g.Pos.Line)

	require.Len(t, g.Declarations, 5)
	base, profile, friends, ping, settings := g.Declarations[0], g.Declarations[1], g.Declarations[2], g.Declarations[3], g.Declarations[4]

	assert.Equal(t, "Base", base.Name)
	assert.Equal(t, decl.KindEmbedded, base.Kind)

	assert.Equal(t, "GetProfile", profile.Name)
	require.Len(t, profile.Params, 2)
	assert.Equal(t, "string", profile.Params[0].Type.String())
	assert.Equal(t, "github.com/chazu/rpcgen/pkg/rpc.RequestCallback[*github.com/acme/models.Profile]", profile.Params[1].Type.String())
	assert.Nil(t, profile.Scope)
	assert.Equal(t, 16, profile.Pos.Line)

	require.NotNil(t, friends.Result)
	assert.Equal(t, "[]*github.com/acme/models.Profile", friends.Result.String())
	assert.Equal(t, []decl.DefaultParameter{{Key: "limit", Value: "20"}, {Key: "offset", Value: "0"}}, friends.Defaults)
	require.Len(t, friends.Params, 1, "func-typed parameters are skipped")

	require.NotNil(t, ping.Method)
	assert.Equal(t, "system.ping", *ping.Method)
	assert.True(t, ping.NotBindable)
	assert.Equal(t, "github.com/chazu/rpcgen/pkg/rpc.RequestCallback[github.com/acme/api.Status]", ping.Params[0].Type.String())

	require.Len(t, settings.Params, 2)
	assert.Equal(t, "github.com/chazu/rpcgen/pkg/rpc.RequestCallback[map[string]gopkg.in/yaml.v3.Node]", settings.Params[0].Type.String())
	assert.Equal(t, "[]github.com/hashicorp/hcl/v2.Diagnostic", settings.Params[1].Type.String())

	require.Len(t, set.Declarations, 1)
	health := set.Declarations[0]
	assert.Equal(t, "Health", health.Name)
	require.NotNil(t, health.Scope)
	assert.Equal(t, "", *health.Scope)
}

func TestSourceFeedsResolver(t *testing.T) {
	set, err := scan.Source("api.go", []byte(userAPI), scan.Options{SourcePackage: "github.com/acme/api"})
	require.NoError(t, err)

	endpoints, ds := resolve.Resolve(set, resolve.Options{})
	assert.Empty(t, ds)

	var names []string
	results := map[string]string{}
	for _, e := range endpoints {
		names = append(names, e.Name())
		results[e.Name()] = e.Result.String()
	}
	assert.Equal(t, []string{"user.GetProfile", "user.ListFriends", "system.ping", "user.Settings", "Health"}, names)
	assert.Equal(t, "*github.com/acme/models.Profile", results["user.GetProfile"])
	assert.Equal(t, "github.com/acme/api.Status", results["system.ping"])
	assert.Equal(t, "any", results["Health"])
}

func TestSourceSyntaxError(t *testing.T) {
	_, err := scan.Source("bad.go", []byte("package api\nfunc {"), scan.Options{})
	assert.Error(t, err)
}

func TestDirectiveProblems(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantMsg string
	}{
		{"unknown directive", "package api\n//rpc:bogus\nfunc F() {}\n", `unknown directive "//rpc:bogus"`},
		{"method without argument", "package api\n//rpc:method\nfunc F() {}\n", `directive "//rpc:method" without argument`},
		{"bad default", "package api\n//rpc:default nokey\nfunc F() {}\n", `default "nokey", want key=value`},
		{"unresolved result", "package api\n//rpc:result other.Type\nfunc F() {}\n", `result type "other.Type": import for other.Type not found`},
		{"unparsable result", "package api\n//rpc:result [[\nfunc F() {}\n", `result type "[[" does not parse`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := scan.Source("bad.go", []byte(tt.src), scan.Options{})
			require.NoError(t, err)
			require.Len(t, set.Declarations, 1)
			require.Len(t, set.Declarations[0].Problems, 1)
			p := set.Declarations[0].Problems[0]
			assert.Equal(t, tt.wantMsg, p.Message)
			assert.Equal(t, decl.Position{File: "bad.go", Line: 2, Column: 1}, p.Pos)

			endpoints, ds := resolve.Resolve(set, resolve.Options{})
			assert.Empty(t, endpoints)
			require.Len(t, ds, 1)
			assert.Equal(t, "bad.go:2:1: error: F: "+tt.wantMsg, ds[0].String())
		})
	}
}

func TestBadMethodDoesNotStopItsNeighbours(t *testing.T) {
	src := `package api

//rpc:scope user
type UserAPI interface {
	//rpc:result string
	Good()

	//rpc:default retries
	Bad()
}

//rpc:scope misc
//rpc:colour blue
func Other() {}

//rpc:scope misc
//rpc:result bool
func Fine() {}
`
	set, err := scan.Source("src/api.go", []byte(src), scan.Options{})
	require.NoError(t, err)

	endpoints, ds := resolve.Resolve(set, resolve.Options{})
	var names []string
	for _, e := range endpoints {
		names = append(names, e.Name())
	}
	assert.Equal(t, []string{"user.Good", "misc.Fine"}, names)

	require.Len(t, ds, 2)
	assert.Equal(t, `src/api.go:8:2: error: UserAPI.Bad: default "retries", want key=value`, ds[0].String())
	assert.Equal(t, `src/api.go:13:1: error: Other: unknown directive "//rpc:colour"`, ds[1].String())
}

func TestInterfaceDirectiveProblemDropsGroup(t *testing.T) {
	src := "package api\n//rpc:method a.b\ntype I interface{ F() }\n"
	set, err := scan.Source("bad.go", []byte(src), scan.Options{})
	require.NoError(t, err)
	require.Len(t, set.Groups, 1)
	require.Len(t, set.Groups[0].Problems, 1)

	endpoints, ds := resolve.Resolve(set, resolve.Options{})
	assert.Empty(t, endpoints)
	require.Len(t, ds, 1)
	assert.Equal(t, `bad.go:2:1: error: I: directive "//rpc:method" is not allowed on an interface`, ds[0].String())
	assert.True(t, ds.HasErrors())
}

func TestLocalTypesWithoutSourcePackage(t *testing.T) {
	src := "package api\n//rpc:scope s\n//rpc:result Thing\nfunc F() {}\n"
	set, err := scan.Source("f.go", []byte(src), scan.Options{})
	require.NoError(t, err)
	require.Len(t, set.Declarations, 1)
	assert.Equal(t, "Thing", set.Declarations[0].Result.String())
}
